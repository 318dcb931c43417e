package rollup

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
)

// Sort orders for List.
const (
	SortBySize  = "size"
	SortByDisk  = "disk"
	SortByName  = "name"
	SortByFiles = "files"
)

// Row is one child of a listed directory with the totals it accounts for.
type Row struct {
	Name  string
	Kind  entry.Kind
	Entry entry.CatalogEntry
	entry.Rollup
}

// List returns the children of dir with their totals, ordered by sortBy.
// A limit of zero or less returns every child.
func List(ctx context.Context, store *db.Store, rollups Rollups, dir, sortBy string, limit int) ([]Row, error) {
	children, err := store.Children(ctx, dir)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(children))
	for i := range children {
		e := &children[i]
		rows = append(rows, Row{
			Name:   e.Name(),
			Kind:   e.Kind(),
			Entry:  *e,
			Rollup: rollups.Of(e),
		})
	}

	if err := SortRows(rows, sortBy); err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// SortRows orders rows in place. Numeric orders are descending; ties and
// the name order are ascending by name.
func SortRows(rows []Row, sortBy string) error {
	var key func(r *Row) int64
	switch strings.ToLower(sortBy) {
	case SortBySize, "":
		key = func(r *Row) int64 { return r.TotalSize }
	case SortByDisk:
		key = func(r *Row) int64 { return r.TotalBlocks }
	case SortByFiles:
		key = func(r *Row) int64 { return r.TotalFiles }
	case SortByName:
	default:
		return fmt.Errorf("invalid sort %q (expected size|disk|name|files)", sortBy)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if key != nil {
			a, b := key(&rows[i]), key(&rows[j])
			if a != b {
				return a > b
			}
		}
		return rows[i].Name < rows[j].Name
	})
	return nil
}
