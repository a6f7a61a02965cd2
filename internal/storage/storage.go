package storage

import (
	"context"
)

// Snapshotter defines the interface for mirroring per-user workout tables to
// remote object storage. Snapshots are best-effort copies of the on-disk
// tables; the local files remain the source of truth.
type Snapshotter interface {
	// PutTable uploads the user's workout table from the given local path.
	PutTable(ctx context.Context, username string, localPath string) error

	// DeleteUser removes every snapshot object belonging to the user.
	DeleteUser(ctx context.Context, username string) error
}
