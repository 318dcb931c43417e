package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/pathutil"
)

func (s *Store) inodeOf(ctx context.Context, path string) (int64, error) {
	path = pathutil.CleanCatalog(path)
	if ino, ok := s.inodes.Get(path); ok {
		return ino, nil
	}

	var ino int64
	err := s.bunDB.NewSelect().
		Model((*entry.CatalogEntry)(nil)).
		Column("st_ino").
		Where("path = ?", path).
		Limit(1).
		Scan(ctx, &ino)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", path, err)
	}

	s.inodes.Set(path, ino)
	return ino, nil
}

// AddAttr attaches a named value to the entry at path. Attributes are
// create-only: a second value for the same name fails with
// ErrDuplicateAttribute.
func (s *Store) AddAttr(ctx context.Context, path, name, value string) error {
	if name == "" {
		return fmt.Errorf("attribute name must not be empty")
	}
	ino, err := s.inodeOf(ctx, path)
	if err != nil {
		return err
	}

	attr := &entry.AttributeEntry{Inode: ino, Name: name, Value: value}
	err = withLockRetry(ctx, func() error {
		_, err := s.bunDB.NewInsert().Model(attr).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add attribute %q on %s: %w", name, path, classifyConstraint(err))
	}
	return nil
}

// GetAttr returns the value of one attribute.
func (s *Store) GetAttr(ctx context.Context, path, name string) (string, error) {
	ino, err := s.inodeOf(ctx, path)
	if err != nil {
		return "", err
	}

	attr := new(entry.AttributeEntry)
	err = s.bunDB.NewSelect().
		Model(attr).
		Where("st_ino = ?", ino).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: attribute %q on %s", ErrNotFound, name, path)
	}
	if err != nil {
		return "", fmt.Errorf("get attribute %q on %s: %w", name, path, err)
	}
	return attr.Value, nil
}

// ListAttrs returns every attribute of the entry at path, ordered by name.
func (s *Store) ListAttrs(ctx context.Context, path string) ([]entry.AttributeEntry, error) {
	ino, err := s.inodeOf(ctx, path)
	if err != nil {
		return nil, err
	}

	var attrs []entry.AttributeEntry
	err = s.bunDB.NewSelect().
		Model(&attrs).
		Where("st_ino = ?", ino).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attributes on %s: %w", path, err)
	}
	return attrs, nil
}
