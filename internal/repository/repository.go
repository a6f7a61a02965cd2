package repository

import (
	"alcyxob/gym-tracker/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CredentialRepository defines the interface for the shared credential store
// (username -> password hash). Implementations persist the whole store as a
// single file and must serialize writes behind one lock.
type CredentialRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, username string) (*domain.Account, error)
	Delete(ctx context.Context, username string) error
}

// WorkoutRepository defines the interface for per-user workout tables.
// Each account owns exactly one table; every operation rewrites the whole
// table (read-then-overwrite, no partial updates).
type WorkoutRepository interface {
	// Load reads the user's table. A missing table yields an empty log.
	// Rows with an unparseable date or missing weight/reps are silently
	// excluded; the second return value counts them.
	Load(ctx context.Context, username string) ([]domain.Entry, int, error)
	// Save overwrites the user's table with the given entries, creating the
	// user directory on first use.
	Save(ctx context.Context, username string, entries []domain.Entry) error
	// Destroy removes the user's entire directory recursively. Irreversible.
	Destroy(ctx context.Context, username string) error
	// TablePath returns the on-disk location of the user's table.
	TablePath(username string) string
}
