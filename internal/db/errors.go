package db

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrDuplicateIdentity reports an entry that is already cataloged. A
	// path collision is the same condition seen through the path index, so
	// ErrDuplicatePath wraps it.
	ErrDuplicateIdentity = errors.New("entry already cataloged")
	ErrDuplicatePath     = fmt.Errorf("%w (path)", ErrDuplicateIdentity)

	ErrDuplicateAttribute = errors.New("attribute already set")
	ErrNotFound           = errors.New("not found in catalog")
)

// classifyConstraint maps a SQLite constraint violation onto the catalog
// error taxonomy. Other errors are returned unchanged.
func classifyConstraint(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "catifs_attrs."):
		return fmt.Errorf("%w: %w", ErrDuplicateAttribute, err)
	case strings.Contains(msg, "FOREIGN KEY"):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case strings.Contains(msg, "catifs.st_ino"):
		return fmt.Errorf("%w: %w", ErrDuplicateIdentity, err)
	case strings.Contains(msg, "catifs.path"):
		return fmt.Errorf("%w: %w", ErrDuplicatePath, err)
	}
	return err
}

func unavailable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, path, err)
}
