package domain

// Account represents a registered user of the tracker.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose this via JSON
}
