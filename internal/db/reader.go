package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/pathutil"
)

const (
	modeDir  = 0o040000
	rootMode = modeDir | 0o755
)

// RootEntry is what the catalog reports for "/" when the scan root itself
// was not stored.
func RootEntry() *entry.CatalogEntry {
	return &entry.CatalogEntry{
		Path:      "/",
		Mode:      rootMode,
		LinkCount: 2,
		IsDir:     true,
	}
}

// Lookup returns the row stored under a catalog path.
func (s *Store) Lookup(ctx context.Context, path string) (*entry.CatalogEntry, error) {
	path = pathutil.CleanCatalog(path)

	e := new(entry.CatalogEntry)
	err := s.bunDB.NewSelect().
		Model(e).
		Where("path = ?", path).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if path == "/" {
			return RootEntry(), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}

	s.inodes.Set(path, e.Inode)
	return e, nil
}

// Children returns the direct children of a catalog directory, ordered by
// path.
func (s *Store) Children(ctx context.Context, dir string) ([]entry.CatalogEntry, error) {
	prefix := pathutil.CleanCatalog(dir)
	if prefix == "/" {
		prefix = ""
	}

	var children []entry.CatalogEntry
	err := s.bunDB.NewSelect().
		Model(&children).
		Where("substr(path, 1, length(?) + 1) = ? || '/'", prefix, prefix).
		Where("instr(substr(path, length(?) + 2), '/') = 0", prefix).
		OrderExpr("path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return children, nil
}

// Summary counts the catalog's rows by classification.
func (s *Store) Summary(ctx context.Context) (*entry.Summary, error) {
	var sum entry.Summary
	err := s.bunDB.NewRaw(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_dir THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN NOT is_dir AND is_link THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN NOT is_dir AND NOT is_link THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN NOT is_dir AND NOT is_link THEN st_size ELSE 0 END), 0)
		FROM catifs
	`).Scan(ctx, &sum.Entries, &sum.Dirs, &sum.Symlinks, &sum.Files, &sum.TotalSize)
	if err != nil {
		return nil, fmt.Errorf("summarize catalog: %w", err)
	}
	return &sum, nil
}

// Count returns the number of catalog rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.bunDB.NewSelect().Model((*entry.CatalogEntry)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return int64(n), nil
}

// Each streams every catalog row to fn in path order.
func (s *Store) Each(ctx context.Context, fn func(*entry.CatalogEntry) error) error {
	rows, err := s.bunDB.NewSelect().
		Model((*entry.CatalogEntry)(nil)).
		OrderExpr("path ASC").
		Rows(ctx)
	if err != nil {
		return fmt.Errorf("scan catalog: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entry.CatalogEntry
		if err := s.bunDB.ScanRow(ctx, rows, &e); err != nil {
			return fmt.Errorf("scan catalog row: %w", err)
		}
		if err := fn(&e); err != nil {
			return err
		}
	}
	return rows.Err()
}
