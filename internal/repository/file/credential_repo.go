package file

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository" // Import the repository interfaces package
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CredentialsFileName is the well-known name of the shared credential store,
// located directly under the data root.
const CredentialsFileName = "credentials.json"

// fileCredentialRepository implements repository.CredentialRepository on top
// of a single JSON file mapping username -> password hash. The whole file is
// read and rewritten on every mutation; one mutex serializes access so that
// concurrent registrations cannot lose writes.
type fileCredentialRepository struct {
	path string
	mu   sync.Mutex
}

// NewCredentialRepository creates a credential repository rooted at dataRoot.
func NewCredentialRepository(dataRoot string) (repository.CredentialRepository, error) {
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &fileCredentialRepository{
		path: filepath.Join(dataRoot, CredentialsFileName),
	}, nil
}

func (r *fileCredentialRepository) Create(_ context.Context, account *domain.Account) error {
	if account.Username == "" || account.PasswordHash == "" {
		return fmt.Errorf("account username and password hash are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	creds, err := r.readAll()
	if err != nil {
		return err
	}
	if _, taken := creds[account.Username]; taken {
		return repository.ErrDuplicate
	}
	creds[account.Username] = account.PasswordHash
	return r.writeAll(creds)
}

func (r *fileCredentialRepository) Get(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	creds, err := r.readAll()
	if err != nil {
		return nil, err
	}
	hash, ok := creds[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.Account{Username: username, PasswordHash: hash}, nil
}

func (r *fileCredentialRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	creds, err := r.readAll()
	if err != nil {
		return err
	}
	if _, ok := creds[username]; !ok {
		return repository.ErrNotFound
	}
	delete(creds, username)
	return r.writeAll(creds)
}

// readAll loads the full credential map. A missing file is an empty store.
func (r *fileCredentialRepository) readAll() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read credential store: %w", err)
	}
	creds := map[string]string{}
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credential store: %w", err)
	}
	return creds, nil
}

func (r *fileCredentialRepository) writeAll(creds map[string]string) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential store: %w", err)
	}
	// 0600: the file holds password digests.
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write credential store: %w", err)
	}
	return nil
}
