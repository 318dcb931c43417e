package scan

import (
	"golang.org/x/sys/unix"

	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/pathutil"
)

// Normalize reads the metadata of realPath without following a final
// symlink and maps it to a catalog row whose path is relative to root.
func Normalize(root, realPath string) (*entry.CatalogEntry, error) {
	var st unix.Stat_t
	if err := unix.Lstat(realPath, &st); err != nil {
		return nil, &StatError{Path: realPath, Err: err}
	}

	catalogPath, err := pathutil.CatalogPath(root, realPath)
	if err != nil {
		return nil, err
	}

	return fromStat(catalogPath, realPath, &st), nil
}

func fromStat(catalogPath, realPath string, st *unix.Stat_t) *entry.CatalogEntry {
	format := uint32(st.Mode) & unix.S_IFMT

	// Both halves of each pair come from the same timespec.
	atimSec, atimNsec := st.Atim.Unix()
	mtimSec, mtimNsec := st.Mtim.Unix()
	ctimSec, ctimNsec := st.Ctim.Unix()

	return &entry.CatalogEntry{
		Path:       catalogPath,
		RealPath:   realPath,
		Device:     int64(st.Dev),
		Inode:      int64(st.Ino),
		Mode:       int64(st.Mode),
		LinkCount:  int64(st.Nlink),
		UID:        int64(st.Uid),
		GID:        int64(st.Gid),
		Rdev:       int64(st.Rdev),
		Size:       st.Size,
		BlockSize:  int64(st.Blksize),
		BlockCount: st.Blocks,
		AtimeSec:   atimSec,
		AtimeNsec:  atimNsec,
		MtimeSec:   mtimSec,
		MtimeNsec:  mtimNsec,
		CtimeSec:   ctimSec,
		CtimeNsec:  ctimNsec,
		IsDir:      format == unix.S_IFDIR,
		IsLink:     format == unix.S_IFLNK,
	}
}
