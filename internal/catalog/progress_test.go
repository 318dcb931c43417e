package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/catifs/internal/db"
)

func TestWriteProgress(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProgress(&buf, db.Progress{
		Count:     1000,
		Dirs:      12,
		Files:     980,
		Symlinks:  8,
		TotalSize: 1536,
		LastPath:  "/src/main.go",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Stored 12 directories, 980 files and 8 symlinks [1.5 KiB (1536)]\n1000: /src/main.go\n",
		buf.String())
}

func TestWriteProgressSmallSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProgress(&buf, db.Progress{Count: 1, Files: 1, TotalSize: 9, LastPath: "/a"}))
	assert.Equal(t, "Stored 0 directories, 1 files and 0 symlinks [9]\n1: /a\n", buf.String())
}
