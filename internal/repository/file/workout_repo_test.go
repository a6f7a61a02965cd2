package file

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWorkoutRepository_LoadMissingTable(t *testing.T) {
	repo, err := NewWorkoutRepository(t.TempDir())
	require.NoError(t, err)

	entries, dropped, err := repo.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, dropped)
}

func TestWorkoutRepository_SaveLoadRoundTrip(t *testing.T) {
	repo, err := NewWorkoutRepository(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	saved := []domain.Entry{
		{Date: date(t, "2024-01-01"), Exercise: "Squat", Weight: 100, Reps: 5},
		{Date: date(t, "2024-01-03"), Exercise: "Bench Press", Weight: 82.5, Reps: 8},
		{Date: date(t, "2024-01-03"), Exercise: domain.BodyWeight, Weight: 74.2, Reps: 0},
	}
	require.NoError(t, repo.Save(ctx, "alice", saved))

	loaded, dropped, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, saved, loaded)
}

func TestWorkoutRepository_TableFormat(t *testing.T) {
	root := t.TempDir()
	repo, err := NewWorkoutRepository(root)
	require.NoError(t, err)
	ctx := context.Background()

	entries := []domain.Entry{
		{Date: date(t, "2024-02-10"), Exercise: "Deadlift", Weight: 140, Reps: 3},
	}
	require.NoError(t, repo.Save(ctx, "alice", entries))

	// One directory per user, fixed filename, header row, exact column order.
	data, err := os.ReadFile(filepath.Join(root, "alice", TableFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Exercise,Weight,Reps", lines[0])
	assert.Equal(t, "2024-02-10,Deadlift,140,3", lines[1])
}

func TestWorkoutRepository_DropsMalformedRows(t *testing.T) {
	root := t.TempDir()
	repo, err := NewWorkoutRepository(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "alice"), 0o755))
	table := strings.Join([]string{
		"Date,Exercise,Weight,Reps",
		"2024-01-01,Squat,100,5",
		"not-a-date,Squat,100,5",
		"2024-01-02,Bench,,5",
		"2024-01-03,Bench,80,",
		"2024-01-04,Bench,eighty,5",
		"2024-01-05,Row",
		"2024-01-06,Row,60,8",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "alice", TableFileName), []byte(table), 0o644))

	entries, dropped, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, dropped)
	require.Len(t, entries, 2)
	assert.Equal(t, "Squat", entries[0].Exercise)
	assert.Equal(t, "Row", entries[1].Exercise)
}

func TestWorkoutRepository_Destroy(t *testing.T) {
	root := t.TempDir()
	repo, err := NewWorkoutRepository(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "alice", nil))
	require.NoError(t, repo.Destroy(ctx, "alice"))

	_, err = os.Stat(filepath.Join(root, "alice"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, repo.Destroy(ctx, "alice"), repository.ErrNotFound)
}

func TestWorkoutRepository_RejectsPathEscapingUsernames(t *testing.T) {
	repo, err := NewWorkoutRepository(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, username := range []string{"", ".", "..", "../evil", "a/b"} {
		assert.Error(t, repo.Save(ctx, username, nil), "username %q", username)
		_, _, err := repo.Load(ctx, username)
		assert.Error(t, err, "username %q", username)
	}
}
