package scan

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/michaelscutari/catifs/internal/entry"
)

// Walker enumerates a directory tree depth-first. Every entry of a
// directory is yielded before the walker descends into any of its
// subdirectories; subdirectories are yielded before the other entries.
// Symlinks are yielded but never followed.
type Walker struct {
	root    string
	opts    *ScanOptions
	rootDev uint64
	readDir func(string) ([]os.DirEntry, error)
}

// NewWalker checks that root is a directory and returns a walker for it.
// A symlink given as the root is followed; symlinks below it are not.
func NewWalker(root string, opts *ScanOptions) (*Walker, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &StatError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	w := &Walker{root: root, opts: opts, readDir: os.ReadDir}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		w.rootDev = uint64(stat.Dev)
	}
	return w, nil
}

// Root returns the directory being walked.
func (w *Walker) Root() string { return w.root }

// Entries returns the lazy sequence of entries below the root. The root
// itself is not yielded. A directory that cannot be listed is skipped with
// a warning, except the root, whose listing failure ends the sequence with
// an error. When a listing fails partway, the entries read before the
// failure are still yielded.
func (w *Walker) Entries() iter.Seq2[entry.Entry, error] {
	return func(yield func(entry.Entry, error) bool) {
		stack := []string{w.root}

		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			dirEntries, err := w.readDir(dir)
			if err != nil {
				if dir == w.root && len(dirEntries) == 0 {
					yield(entry.Entry{}, fmt.Errorf("failed to read root directory: %w", err))
					return
				}
				if len(dirEntries) == 0 {
					log.WithError(err).Warnf("skipping unreadable directory %s", dir)
					continue
				}
				log.WithError(err).Warnf("partial listing of %s: %d entries read", dir, len(dirEntries))
			}

			var dirs, others []entry.Entry
			for _, de := range dirEntries {
				childPath := filepath.Join(dir, de.Name())
				if w.opts.ShouldExclude(childPath) {
					log.Debugf("[WALKER] EXCLUDE path=%s", childPath)
					continue
				}

				e := entry.Entry{
					Kind:     entry.KindFromMode(de.Type()),
					Parent:   dir,
					Name:     de.Name(),
					RealPath: childPath,
				}

				if e.Kind != entry.KindDir {
					others = append(others, e)
					continue
				}

				if w.opts.Xdev {
					crosses, err := w.crossesDevice(childPath)
					if err != nil {
						yield(entry.Entry{}, err)
						return
					}
					if crosses {
						log.Debugf("[WALKER] XDEV-SKIP path=%s", childPath)
						continue
					}
				}
				dirs = append(dirs, e)
			}

			for _, e := range dirs {
				if !yield(e, nil) {
					return
				}
			}
			for _, e := range others {
				if !yield(e, nil) {
					return
				}
			}

			// Push in reverse so the first listed subdirectory is visited first.
			for i := len(dirs) - 1; i >= 0; i-- {
				stack = append(stack, dirs[i].RealPath)
			}
		}
	}
}

func (w *Walker) crossesDevice(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, &StatError{Path: path, Err: err}
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false, nil
	}
	return uint64(stat.Dev) != w.rootDev, nil
}
