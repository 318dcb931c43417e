package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/scan"
)

// Manager handles one cataloging run: open (or bootstrap) the store, take
// the writer lock, scan, and flush-and-close on every exit path.
type Manager struct {
	catalogPath string
	lock        bool
	out         io.Writer
	checkpoint  db.CheckpointFunc
}

// NewManager creates a manager for the catalog file at catalogPath.
// Progress lines go to stdout.
func NewManager(catalogPath string) *Manager {
	return &Manager{
		catalogPath: catalogPath,
		lock:        true,
		out:         os.Stdout,
	}
}

// SetOutput redirects progress lines.
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// SetLocking enables or disables the advisory writer lock.
func (m *Manager) SetLocking(lock bool) {
	m.lock = lock
}

// SetCheckpointFunc sets an extra callback run after each checkpoint, after
// the progress lines are printed.
func (m *Manager) SetCheckpointFunc(f db.CheckpointFunc) {
	m.checkpoint = f
}

// RunScan catalogs root into the managed catalog and returns the final
// counters. On failure the counters describe what had been inserted when
// the run stopped; only rows up to the last checkpoint are persisted.
func (m *Manager) RunScan(ctx context.Context, root string, opts *scan.ScanOptions) (progress db.Progress, err error) {
	// Reject a bad root before the catalog file is bootstrapped.
	if _, err := scan.NewWalker(root, opts); err != nil {
		return db.Progress{}, fmt.Errorf("scan failed: %w", err)
	}

	store, err := db.Open(ctx, m.catalogPath, db.OpenOptions{Lock: m.lock})
	if err != nil {
		return db.Progress{}, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	if store.Created() {
		log.Infof("created catalog %s", m.catalogPath)
	}

	scanner := scan.NewScanner(store, opts)
	scanner.SetCheckpointFunc(func(p db.Progress) {
		if err := WriteProgress(m.out, p); err != nil {
			log.WithError(err).Warn("failed to write progress")
		}
		if m.checkpoint != nil {
			m.checkpoint(p)
		}
	})

	if err := scanner.Run(ctx, root); err != nil {
		return scanner.Progress(), fmt.Errorf("scan failed: %w", err)
	}
	return scanner.Progress(), nil
}
