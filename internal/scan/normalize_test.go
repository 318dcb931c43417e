package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNormalizeFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "bidon", "a_file")
	writeFile(t, file, "123456789")

	row, err := Normalize(root, file)
	require.NoError(t, err)

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(file, &st))

	assert.Equal(t, "/bidon/a_file", row.Path)
	assert.Equal(t, file, row.RealPath)
	assert.Equal(t, int64(st.Ino), row.Inode)
	assert.Equal(t, int64(st.Dev), row.Device)
	assert.Equal(t, int64(9), row.Size)
	assert.Equal(t, int64(st.Mode), row.Mode)
	assert.Equal(t, st.Mtim.Sec, row.MtimeSec)
	assert.Equal(t, st.Mtim.Nsec, row.MtimeNsec)
	assert.False(t, row.IsDir)
	assert.False(t, row.IsLink)
}

func TestNormalizeDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "bidon")
	require.NoError(t, os.Mkdir(dir, 0o755))

	row, err := Normalize(root, dir)
	require.NoError(t, err)
	assert.Equal(t, "/bidon", row.Path)
	assert.True(t, row.IsDir)
	assert.False(t, row.IsLink)
}

func TestNormalizeSymlinkDescribesLink(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	writeFile(t, target, "a much longer target body")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	row, err := Normalize(root, link)
	require.NoError(t, err)

	var lst, st unix.Stat_t
	require.NoError(t, unix.Lstat(link, &lst))
	require.NoError(t, unix.Stat(link, &st))

	assert.True(t, row.IsLink)
	assert.False(t, row.IsDir)
	assert.Equal(t, int64(lst.Ino), row.Inode)
	assert.NotEqual(t, int64(st.Ino), row.Inode)
	assert.Equal(t, int64(len(target)), row.Size)
}

func TestNormalizeMissing(t *testing.T) {
	root := t.TempDir()
	_, err := Normalize(root, filepath.Join(root, "gone"))

	var statErr *StatError
	require.ErrorAs(t, err, &statErr)
	assert.Equal(t, filepath.Join(root, "gone"), statErr.Path)
	assert.ErrorIs(t, err, ErrStatUnavailable)
}
