package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func TestFSStore(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	alice := filepath.Join(root, "alice")
	require.NoError(t, os.Mkdir(alice, 0o755))
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	writeFile(t, filepath.Join(alice, "1.jpg"), weekAgo.Add(-time.Hour))
	writeFile(t, filepath.Join(alice, "2.PNG"), time.Time{})
	writeFile(t, filepath.Join(alice, "notes.txt"), time.Time{}) // not an image

	require.NoError(t, os.Mkdir(filepath.Join(root, "bob"), 0o755))

	store := NewFSStore(root)

	people, err := store.People(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, people)

	n, err := store.CountImages(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "extension match is case-insensitive, non-images skipped")

	old, err := store.CountImagesBefore(ctx, "alice", weekAgo)
	require.NoError(t, err)
	assert.Equal(t, 1, old)

	n, err = store.CountImages(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFSStoreMissingRoot(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "nope"))
	ctx := context.Background()

	people, err := store.People(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)

	n, err := store.CountImages(ctx, "anyone")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFSStoreHonorsContext(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "p"), 0o755))
	store := NewFSStore(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.People(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
