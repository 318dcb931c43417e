package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/catifs/internal/entry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// buildTree creates:
//
//	a/c/
//	a/y
//	b/x
//	l -> b
//	z
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "c"), 0o755))
	writeFile(t, filepath.Join(root, "a", "y"), "y")
	writeFile(t, filepath.Join(root, "b", "x"), "x")
	writeFile(t, filepath.Join(root, "z"), "z")
	require.NoError(t, os.Symlink("b", filepath.Join(root, "l")))
	return root
}

type walked struct {
	rel  string
	kind entry.Kind
}

func collect(t *testing.T, w *Walker) []walked {
	t.Helper()
	var out []walked
	for e, err := range w.Entries() {
		require.NoError(t, err)
		rel, err := filepath.Rel(w.Root(), e.RealPath)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(e.Parent, e.Name), e.RealPath)
		out = append(out, walked{rel: filepath.ToSlash(rel), kind: e.Kind})
	}
	return out
}

func TestWalkerOrder(t *testing.T) {
	root := buildTree(t)

	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []walked{
		{"a", entry.KindDir},
		{"b", entry.KindDir},
		{"l", entry.KindSymlink},
		{"z", entry.KindFile},
		{"a/c", entry.KindDir},
		{"a/y", entry.KindFile},
		{"b/x", entry.KindFile},
	}, collect(t, w))
}

func TestWalkerDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "inside"), "data")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	got := collect(t, w)
	assert.Len(t, got, 3)
	assert.Contains(t, got, walked{"alias", entry.KindSymlink})
	assert.NotContains(t, got, walked{"alias/inside", entry.KindFile})
}

func TestWalkerEarlyStop(t *testing.T) {
	root := buildTree(t)
	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	n := 0
	for range w.Entries() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestWalkerExclude(t *testing.T) {
	root := buildTree(t)
	opts := DefaultOptions()
	require.NoError(t, opts.AddExcludePattern(`/a$`))

	w, err := NewWalker(root, opts)
	require.NoError(t, err)

	assert.Equal(t, []walked{
		{"b", entry.KindDir},
		{"l", entry.KindSymlink},
		{"z", entry.KindFile},
		{"b/x", entry.KindFile},
	}, collect(t, w))
}

func TestWalkerSkipsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := buildTree(t)
	locked := filepath.Join(root, "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	got := collect(t, w)
	assert.Contains(t, got, walked{"b", entry.KindDir})
	assert.NotContains(t, got, walked{"b/x", entry.KindFile})
	assert.Contains(t, got, walked{"a/y", entry.KindFile})
}

func TestNewWalkerErrors(t *testing.T) {
	root := t.TempDir()

	_, err := NewWalker(filepath.Join(root, "missing"), nil)
	assert.ErrorIs(t, err, ErrStatUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(root, "file")
	writeFile(t, file, "x")
	_, err = NewWalker(file, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestWalkerFollowsSymlinkedRoot(t *testing.T) {
	target := buildTree(t)
	root := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, root))

	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	got := collect(t, w)
	assert.Len(t, got, 7)
	assert.Contains(t, got, walked{"a/y", entry.KindFile})
	// Symlinks below the root are still not followed.
	assert.Contains(t, got, walked{"l", entry.KindSymlink})
	assert.NotContains(t, got, walked{"l/x", entry.KindFile})
}

func TestWalkerYieldsPartialListing(t *testing.T) {
	root := buildTree(t)
	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	partial := filepath.Join(root, "a")
	w.readDir = func(dir string) ([]os.DirEntry, error) {
		entries, err := os.ReadDir(dir)
		if dir == partial {
			return entries[:1], errors.New("listing interrupted")
		}
		return entries, err
	}

	got := collect(t, w)
	assert.Contains(t, got, walked{"a/c", entry.KindDir})
	assert.NotContains(t, got, walked{"a/y", entry.KindFile})
	assert.Contains(t, got, walked{"b/x", entry.KindFile})
}

func TestWalkerRootListingFailure(t *testing.T) {
	root := buildTree(t)
	w, err := NewWalker(root, nil)
	require.NoError(t, err)

	w.readDir = func(string) ([]os.DirEntry, error) {
		return nil, errors.New("listing failed")
	}

	var errs []error
	for _, err := range w.Entries() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "failed to read root directory")
}
