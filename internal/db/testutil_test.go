package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/catifs/internal/entry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.sqlite"), OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fileRow(path string, ino, size int64) *entry.CatalogEntry {
	return &entry.CatalogEntry{
		Path:      path,
		RealPath:  "/src" + path,
		Inode:     ino,
		Mode:      0o100644,
		LinkCount: 1,
		Size:      size,
	}
}

func dirRow(path string, ino int64) *entry.CatalogEntry {
	return &entry.CatalogEntry{
		Path:      path,
		RealPath:  "/src" + path,
		Inode:     ino,
		Mode:      0o040755,
		LinkCount: 2,
		Size:      4096,
		IsDir:     true,
	}
}

func insertRows(t *testing.T, store *Store, rows ...*entry.CatalogEntry) {
	t.Helper()
	ctx := context.Background()
	c := store.NewCommitter(CommitterOptions{})
	require.NoError(t, c.Start(ctx))
	for _, row := range rows {
		require.NoError(t, c.Insert(ctx, row))
	}
	require.NoError(t, c.Finish())
}
