package file

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// TableFileName is the fixed relative filename of the workout table inside
// each user directory.
const TableFileName = "workouts.csv"

// tableHeader is the on-disk column contract. Order and naming are part of
// the external interface; other tools read these files.
var tableHeader = []string{"Date", "Exercise", "Weight", "Reps"}

// fileWorkoutRepository implements repository.WorkoutRepository with one CSV
// table per user under the data root. Every save rewrites the user's whole
// table; a per-user lock keeps two in-process saves from racing each other.
type fileWorkoutRepository struct {
	root string

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewWorkoutRepository creates a workout repository rooted at dataRoot.
func NewWorkoutRepository(dataRoot string) (repository.WorkoutRepository, error) {
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &fileWorkoutRepository{
		root:  dataRoot,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (r *fileWorkoutRepository) userLock(username string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[username] = lock
	}
	return lock
}

// TablePath returns the path of the user's workout table.
func (r *fileWorkoutRepository) TablePath(username string) string {
	return filepath.Join(r.root, username, TableFileName)
}

// checkUsername rejects names that would escape the data root. The service
// layer validates usernames on registration; this is the storage-level guard.
func checkUsername(username string) error {
	if username == "" || username != filepath.Base(username) || username == "." || username == ".." {
		return fmt.Errorf("invalid username %q", username)
	}
	return nil
}

func (r *fileWorkoutRepository) Load(_ context.Context, username string) ([]domain.Entry, int, error) {
	if err := checkUsername(username); err != nil {
		return nil, 0, err
	}

	lock := r.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	return r.readTable(username)
}

func (r *fileWorkoutRepository) Save(_ context.Context, username string, entries []domain.Entry) error {
	if err := checkUsername(username); err != nil {
		return err
	}

	lock := r.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Join(r.root, username), 0o755); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}

	f, err := os.Create(r.TablePath(username))
	if err != nil {
		return fmt.Errorf("create workout table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Date.Format(domain.DateLayout),
			e.Exercise,
			strconv.FormatFloat(e.Weight, 'f', -1, 64),
			strconv.Itoa(e.Reps),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush workout table: %w", err)
	}
	return nil
}

func (r *fileWorkoutRepository) Destroy(_ context.Context, username string) error {
	if err := checkUsername(username); err != nil {
		return err
	}

	lock := r.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Join(r.root, username)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return repository.ErrNotFound
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove user directory: %w", err)
	}
	return nil
}

// readTable parses the user's CSV. Rows that fail to parse are dropped, not
// reported as errors: corrupt history must not block new logging.
func (r *fileWorkoutRepository) readTable(username string) ([]domain.Entry, int, error) {
	f, err := os.Open(r.TablePath(username))
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Entry{}, 0, nil
		}
		return nil, 0, fmt.Errorf("open workout table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are handled below, not fatal
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read workout table: %w", err)
	}
	if len(records) == 0 {
		return []domain.Entry{}, 0, nil
	}

	entries := make([]domain.Entry, 0, len(records)-1)
	dropped := 0
	for _, record := range records[1:] { // skip header
		entry, ok := parseRow(record)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}

	kept, invalid := domain.ValidateEntries(entries)
	return kept, dropped + invalid, nil
}

// parseRow converts one CSV record into an entry. It reports ok=false for
// rows with missing fields, an unparseable date, or non-numeric weight/reps.
func parseRow(record []string) (domain.Entry, bool) {
	if len(record) < 4 {
		return domain.Entry{}, false
	}
	date, err := domain.ParseDate(record[0])
	if err != nil {
		return domain.Entry{}, false
	}
	weightField := strings.TrimSpace(record[2])
	repsField := strings.TrimSpace(record[3])
	if weightField == "" || repsField == "" {
		return domain.Entry{}, false
	}
	weight, err := strconv.ParseFloat(weightField, 64)
	if err != nil {
		return domain.Entry{}, false
	}
	reps, err := strconv.Atoi(repsField)
	if err != nil {
		return domain.Entry{}, false
	}
	return domain.Entry{
		Date:     date,
		Exercise: strings.TrimSpace(record[1]),
		Weight:   weight,
		Reps:     reps,
	}, true
}
