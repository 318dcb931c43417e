package catalog

import (
	"fmt"
	"io"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/sizefmt"
)

// WriteProgress prints the two checkpoint lines: cumulative counts with the
// formatted file size, then the running total and the latest path.
func WriteProgress(w io.Writer, p db.Progress) error {
	_, err := fmt.Fprintf(w, "Stored %d directories, %d files and %d symlinks [%s]\n%d: %s\n",
		p.Dirs, p.Files, p.Symlinks, sizefmt.Format(p.TotalSize), p.Count, p.LastPath)
	return err
}
