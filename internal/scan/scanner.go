package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/pathutil"
)

// Scanner catalogs one directory tree into a store: walk, normalize each
// entry, insert it, checkpoint periodically.
type Scanner struct {
	opts         *ScanOptions
	store        *db.Store
	onCheckpoint db.CheckpointFunc
	progress     db.Progress
}

// NewScanner creates a new scanner writing to store.
func NewScanner(store *db.Store, opts *ScanOptions) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Scanner{
		opts:  opts,
		store: store,
	}
}

// SetCheckpointFunc sets the callback invoked after every checkpoint commit.
func (s *Scanner) SetCheckpointFunc(f db.CheckpointFunc) {
	s.onCheckpoint = f
}

// Run catalogs every entry below root. The final partial batch is only
// committed when the walk completes; on error everything after the last
// checkpoint is rolled back.
func (s *Scanner) Run(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	root = pathutil.Normalize(root)

	walker, err := NewWalker(root, s.opts)
	if err != nil {
		return err
	}

	committer := s.store.NewCommitter(db.CommitterOptions{
		Every:        s.opts.CheckpointEvery,
		Replace:      s.opts.Replace,
		OnCheckpoint: s.onCheckpoint,
	})
	if err := committer.Start(ctx); err != nil {
		return err
	}
	defer committer.Abort()
	defer func() { s.progress = committer.Progress() }()

	startTime := time.Now()
	log.Debugf("[SCANNER] STARTED root=%s catalog=%s", root, s.store.Path())

	for e, err := range walker.Entries() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := Normalize(root, e.RealPath)
		if err != nil {
			return err
		}
		if err := committer.Insert(ctx, row); err != nil {
			return err
		}
	}

	if err := committer.Finish(); err != nil {
		return err
	}

	log.Debugf("[SCANNER] DONE entries=%d took=%v", committer.Progress().Count, time.Since(startTime))
	return nil
}

// Progress returns the counters of the last Run.
func (s *Scanner) Progress() db.Progress {
	return s.progress
}
