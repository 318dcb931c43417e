package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/catifs/internal/entry"
)

func seedTree(t *testing.T, store *Store) {
	t.Helper()
	link := fileRow("/docs/latest", 5, 8)
	link.Mode = 0o120777
	link.IsLink = true

	insertRows(t, store,
		dirRow("/docs", 1),
		dirRow("/docs/old", 2),
		fileRow("/docs/a.txt", 3, 100),
		fileRow("/docs/old/b.txt", 4, 50),
		link,
		fileRow("/readme", 6, 10),
	)
}

func paths(entries []entry.CatalogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	e, err := store.Lookup(ctx, "/docs/old/b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.Inode)
	assert.Equal(t, int64(50), e.Size)
	assert.Equal(t, "/src/docs/old/b.txt", e.RealPath)
	assert.Equal(t, entry.KindFile, e.Kind())
	assert.Equal(t, "b.txt", e.Name())

	e, err = store.Lookup(ctx, "docs/old/")
	require.NoError(t, err)
	assert.True(t, e.IsDir)

	e, err = store.Lookup(ctx, "/docs/latest")
	require.NoError(t, err)
	assert.Equal(t, entry.KindSymlink, e.Kind())

	_, err = store.Lookup(ctx, "/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupRootIsSynthesized(t *testing.T) {
	store := openTestStore(t)

	root, err := store.Lookup(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "/", root.Path)
	assert.True(t, root.IsDir)
	assert.Equal(t, entry.KindDir, root.Kind())
}

func TestChildren(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	top, err := store.Children(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs", "/readme"}, paths(top))

	docs, err := store.Children(ctx, "/docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/a.txt", "/docs/latest", "/docs/old"}, paths(docs))

	leaf, err := store.Children(ctx, "/docs/old/b.txt")
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestSummaryAndCount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	sum, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.Summary{}, *sum)

	seedTree(t, store)

	sum, err = store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.Summary{
		Entries:   6,
		Dirs:      2,
		Files:     3,
		Symlinks:  1,
		TotalSize: 160,
	}, *sum)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func TestEachVisitsInPathOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	var got []string
	err := store.Each(ctx, func(e *entry.CatalogEntry) error {
		got = append(got, e.Path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/docs",
		"/docs/a.txt",
		"/docs/latest",
		"/docs/old",
		"/docs/old/b.txt",
		"/readme",
	}, got)
}
