package entry

import (
	"os"
	"time"

	"github.com/uptrace/bun"
)

// Kind represents the type of filesystem entry.
type Kind uint8

const (
	KindFile    Kind = 0
	KindDir     Kind = 1
	KindSymlink Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// KindFromMode derives the Kind from an os.FileMode. Anything that is
// neither a directory nor a symlink counts as a file.
func KindFromMode(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindFile
	}
}

// Entry is one item yielded by the tree walker.
type Entry struct {
	Kind     Kind
	Parent   string // Filesystem path of the containing directory
	Name     string
	RealPath string // Parent joined with Name
}

// st_mode file type bits.
const (
	sIFMT   = 0o170000
	sIFSOCK = 0o140000
	sIFLNK  = 0o120000
	sIFBLK  = 0o060000
	sIFDIR  = 0o040000
	sIFCHR  = 0o020000
	sIFIFO  = 0o010000
)

// CatalogEntry is one row of the catifs table.
type CatalogEntry struct {
	bun.BaseModel `bun:"table:catifs"`

	Path       string `bun:"path"`
	RealPath   string `bun:"real_path,nullzero"`
	Device     int64  `bun:"st_dev"`
	Inode      int64  `bun:"st_ino,pk"`
	Mode       int64  `bun:"st_mode"`
	LinkCount  int64  `bun:"st_nlink"`
	UID        int64  `bun:"st_uid"`
	GID        int64  `bun:"st_gid"`
	Rdev       int64  `bun:"st_rdev"`
	Size       int64  `bun:"st_size"`
	BlockSize  int64  `bun:"st_blksize"`
	BlockCount int64  `bun:"st_blocks"`
	AtimeSec   int64  `bun:"st_atim_sec"`
	AtimeNsec  int64  `bun:"st_atim_nsec"`
	MtimeSec   int64  `bun:"st_mtim_sec"`
	MtimeNsec  int64  `bun:"st_mtim_nsec"`
	CtimeSec   int64  `bun:"st_ctim_sec"`
	CtimeNsec  int64  `bun:"st_ctim_nsec"`
	IsDir      bool   `bun:"is_dir"`
	IsLink     bool   `bun:"is_link"`
}

// Kind classifies the row from its flags.
func (e *CatalogEntry) Kind() Kind {
	switch {
	case e.IsDir:
		return KindDir
	case e.IsLink:
		return KindSymlink
	default:
		return KindFile
	}
}

// Name returns the last segment of the catalog path.
func (e *CatalogEntry) Name() string {
	for i := len(e.Path) - 1; i >= 0; i-- {
		if e.Path[i] == '/' {
			return e.Path[i+1:]
		}
	}
	return e.Path
}

// FileMode converts st_mode to an os.FileMode.
func (e *CatalogEntry) FileMode() os.FileMode {
	m := os.FileMode(e.Mode & 0o777)
	switch e.Mode & sIFMT {
	case sIFDIR:
		m |= os.ModeDir
	case sIFLNK:
		m |= os.ModeSymlink
	case sIFIFO:
		m |= os.ModeNamedPipe
	case sIFSOCK:
		m |= os.ModeSocket
	case sIFCHR:
		m |= os.ModeDevice | os.ModeCharDevice
	case sIFBLK:
		m |= os.ModeDevice
	}
	if e.Mode&0o4000 != 0 {
		m |= os.ModeSetuid
	}
	if e.Mode&0o2000 != 0 {
		m |= os.ModeSetgid
	}
	if e.Mode&0o1000 != 0 {
		m |= os.ModeSticky
	}
	return m
}

func (e *CatalogEntry) Atime() time.Time { return time.Unix(e.AtimeSec, e.AtimeNsec) }
func (e *CatalogEntry) Mtime() time.Time { return time.Unix(e.MtimeSec, e.MtimeNsec) }
func (e *CatalogEntry) Ctime() time.Time { return time.Unix(e.CtimeSec, e.CtimeNsec) }

// AttributeEntry is one row of the catifs_attrs table.
type AttributeEntry struct {
	bun.BaseModel `bun:"table:catifs_attrs"`

	Inode int64  `bun:"st_ino,pk"`
	Name  string `bun:"name,pk"`
	Value string `bun:"value"`
}

// Rollup represents aggregated statistics for a directory subtree.
type Rollup struct {
	Path        string
	TotalSize   int64 // Apparent size of regular files
	TotalBlocks int64 // Disk usage in bytes (st_blocks * 512)
	TotalFiles  int64
	TotalDirs   int64
	TotalLinks  int64
}

// Summary holds catalog-wide counters.
type Summary struct {
	Entries   int64
	Dirs      int64
	Files     int64
	Symlinks  int64
	TotalSize int64 // Sum of st_size over regular files
}
