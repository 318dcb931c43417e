package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
	"github.com/michaelscutari/catifs/internal/rollup"
)

var lsCmd = &cobra.Command{
	Use:   "ls <catalog> [path]",
	Short: "List a cataloged directory with subtree totals",
	Long:  `List the direct children of a catalog path (default "/") for scripting.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLs,
}

var (
	lsSort  string
	lsLimit int
)

func init() {
	lsCmd.Flags().StringVarP(&lsSort, "sort", "s", rollup.SortBySize, "Sort by: size, disk, name, files")
	lsCmd.Flags().IntVarP(&lsLimit, "limit", "n", 20, "Maximum number of results (0 = all)")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := db.Open(ctx, args[0], db.OpenOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer store.Close()

	dir := "/"
	if len(args) == 2 {
		dir = args[1]
	}
	target, err := store.Lookup(ctx, dir)
	if err != nil {
		return err
	}
	if !target.IsDir {
		return fmt.Errorf("%s is not a directory", target.Path)
	}

	rollups, err := rollup.NewBuilder(store).Build(ctx)
	if err != nil {
		return err
	}
	rows, err := rollup.List(ctx, store, rollups, target.Path, lsSort, lsLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "APPARENT\tDISK\tFILES\tDIRS\tNAME\n")
	for _, r := range rows {
		name := r.Name
		switch r.Kind {
		case entry.KindDir:
			name += "/"
		case entry.KindSymlink:
			name += "@"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			humanize.IBytes(uint64(r.TotalSize)),
			humanize.IBytes(uint64(r.TotalBlocks)),
			humanize.Comma(r.TotalFiles),
			humanize.Comma(r.TotalDirs),
			name,
		)
	}
	return w.Flush()
}
