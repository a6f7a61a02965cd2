package domain

import (
	"errors"
	"strings"
	"time"
)

// BodyWeight is a reserved exercise name. Entries logged under it track the
// user's own body weight; charting layers render it separately. Storage
// treats it like any other exercise.
const BodyWeight = "BodyWeight"

// DateLayout is the canonical on-disk date format (ISO calendar date).
const DateLayout = "2006-01-02"

// ErrUnparseableDate is returned when none of the accepted date layouts match.
var ErrUnparseableDate = errors.New("unparseable date")

// dateLayouts are the formats accepted on input. The first one is the only
// format ever written back out.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Entry is one logged exercise performance on one date.
// The pair (Date, Exercise) is unique within an account's log.
type Entry struct {
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
	Weight   float64   `json:"weight"` // kilograms
	Reps     int       `json:"reps"`
}

// SameKey reports whether the entry occupies the (date, exercise) slot.
func (e Entry) SameKey(date time.Time, exercise string) bool {
	return e.Date.Equal(CanonicalDate(date)) && e.Exercise == exercise
}

// CanonicalDate truncates a timestamp to midnight UTC so that entries logged
// with different times-of-day still collide on the same calendar date.
func CanonicalDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date string in any of the accepted layouts and
// canonicalizes it. Returns ErrUnparseableDate when nothing matches.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CanonicalDate(t), nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// ValidateEntries filters a log down to the entries considered well-formed,
// returning the kept entries and how many were dropped. Both the load path
// and the pre-persist path run through here, so corrupt history never blocks
// new logging and tests can assert exactly which rows are dropped.
func ValidateEntries(entries []Entry) ([]Entry, int) {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.IsZero() || e.Exercise == "" || e.Weight < 0 || e.Reps < 0 {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(entries) - len(kept)
}
