package rollup

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/pathutil"
)

const blockUnit = 512 // st_blocks is in 512-byte units

// Rollups maps a catalog directory path to the totals of its subtree.
type Rollups map[string]*entry.Rollup

// Get returns the rollup for a directory, or an empty one.
func (r Rollups) Get(path string) *entry.Rollup {
	path = pathutil.CleanCatalog(path)
	if ru, ok := r[path]; ok {
		return ru
	}
	return &entry.Rollup{Path: path}
}

// Builder computes directory rollups from catalog rows.
type Builder struct {
	store    *db.Store
	progress ProgressFunc
}

// ProgressFunc reports rollup progress.
type ProgressFunc func(done int64)

// NewBuilder creates a new rollup builder.
func NewBuilder(store *db.Store) *Builder {
	return &Builder{store: store}
}

// SetProgressFunc sets a callback for rollup progress updates.
func (b *Builder) SetProgressFunc(f ProgressFunc) {
	b.progress = f
}

// Build reads every row once and credits it to each ancestor directory.
// A directory's totals exclude the directory itself.
func (b *Builder) Build(ctx context.Context) (Rollups, error) {
	rollups := Rollups{"/": {Path: "/"}}
	var done int64
	start := time.Now()

	err := b.store.Each(ctx, func(e *entry.CatalogEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.IsDir {
			if _, ok := rollups[e.Path]; !ok {
				rollups[e.Path] = &entry.Rollup{Path: e.Path}
			}
		}

		for dir := pathutil.ParentCatalog(e.Path); ; dir = pathutil.ParentCatalog(dir) {
			ru, ok := rollups[dir]
			if !ok {
				ru = &entry.Rollup{Path: dir}
				rollups[dir] = ru
			}
			add(ru, e)
			if dir == "/" {
				break
			}
		}

		done++
		if b.progress != nil && done%2048 == 0 {
			b.progress(done)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build rollups: %w", err)
	}

	if b.progress != nil {
		b.progress(done)
	}
	log.Debugf("[ROLLUP] DONE rows=%d dirs=%d took=%v", done, len(rollups), time.Since(start))
	return rollups, nil
}

func add(ru *entry.Rollup, e *entry.CatalogEntry) {
	ru.TotalBlocks += e.BlockCount * blockUnit
	switch {
	case e.IsDir:
		ru.TotalDirs++
	case e.IsLink:
		ru.TotalLinks++
	default:
		ru.TotalFiles++
		ru.TotalSize += e.Size
	}
}

// Of returns the totals a single row contributes when listed on its own:
// a directory's subtree rollup plus its own blocks, or the row itself.
func (r Rollups) Of(e *entry.CatalogEntry) entry.Rollup {
	if e.IsDir {
		ru := *r.Get(e.Path)
		ru.TotalBlocks += e.BlockCount * blockUnit
		return ru
	}
	var ru entry.Rollup
	ru.Path = e.Path
	add(&ru, e)
	return ru
}
