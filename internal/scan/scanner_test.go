package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
)

func openStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.sqlite"), db.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScannerSingleFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bidon", "a_file"), "123456789")

	store := openStore(t)
	scanner := NewScanner(store, nil)
	checkpoints := 0
	scanner.SetCheckpointFunc(func(db.Progress) { checkpoints++ })

	require.NoError(t, scanner.Run(ctx, root))
	assert.Zero(t, checkpoints)

	var rows []entry.CatalogEntry
	require.NoError(t, store.Each(ctx, func(e *entry.CatalogEntry) error {
		rows = append(rows, *e)
		return nil
	}))
	require.Len(t, rows, 2)

	assert.Equal(t, "/bidon", rows[0].Path)
	assert.True(t, rows[0].IsDir)

	assert.Equal(t, "/bidon/a_file", rows[1].Path)
	assert.False(t, rows[1].IsDir)
	assert.False(t, rows[1].IsLink)
	assert.Equal(t, int64(9), rows[1].Size)

	p := scanner.Progress()
	assert.Equal(t, int64(2), p.Count)
	assert.Equal(t, int64(1), p.Dirs)
	assert.Equal(t, int64(1), p.Files)
	assert.Equal(t, int64(9), p.TotalSize)
}

func TestScannerCoversTree(t *testing.T) {
	ctx := context.Background()
	root := buildTree(t)
	store := openStore(t)

	require.NoError(t, NewScanner(store, nil).Run(ctx, root))

	sum, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum.Entries)
	assert.Equal(t, int64(3), sum.Dirs)
	assert.Equal(t, int64(3), sum.Files)
	assert.Equal(t, int64(1), sum.Symlinks)

	link, err := store.Lookup(ctx, "/l")
	require.NoError(t, err)
	assert.True(t, link.IsLink)
	assert.Equal(t, filepath.Join(root, "l"), link.RealPath)
}

func TestScannerRescanFails(t *testing.T) {
	ctx := context.Background()
	root := buildTree(t)
	store := openStore(t)

	require.NoError(t, NewScanner(store, nil).Run(ctx, root))

	err := NewScanner(store, nil).Run(ctx, root)
	assert.ErrorIs(t, err, db.ErrDuplicateIdentity)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestScannerReplaceMode(t *testing.T) {
	ctx := context.Background()
	root := buildTree(t)
	store := openStore(t)

	require.NoError(t, NewScanner(store, nil).Run(ctx, root))
	writeFile(t, filepath.Join(root, "z"), "grown")

	require.NoError(t, NewScanner(store, DefaultOptions().WithReplace(true)).Run(ctx, root))

	z, err := store.Lookup(ctx, "/z")
	require.NoError(t, err)
	assert.Equal(t, int64(5), z.Size)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestScannerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := buildTree(t)
	store := openStore(t)

	err := NewScanner(store, nil).Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScannerRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	err := NewScanner(openStore(t), nil).Run(context.Background(), file)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestScannerSymlinkedRoot(t *testing.T) {
	ctx := context.Background()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "bidon", "a_file"), "123456789")
	root := filepath.Join(t.TempDir(), "tree")
	require.NoError(t, os.Symlink(target, root))

	store := openStore(t)
	require.NoError(t, NewScanner(store, nil).Run(ctx, root))

	var paths []string
	require.NoError(t, store.Each(ctx, func(e *entry.CatalogEntry) error {
		paths = append(paths, e.Path)
		return nil
	}))
	assert.Equal(t, []string{"/bidon", "/bidon/a_file"}, paths)

	file, err := store.Lookup(ctx, "/bidon/a_file")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bidon", "a_file"), file.RealPath)
	assert.Equal(t, int64(9), file.Size)
}
