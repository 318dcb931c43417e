package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/sizefmt"
)

var infoCmd = &cobra.Command{
	Use:   "info <catalog>",
	Short: "Display catalog statistics",
	Long:  `Print the number of cataloged directories, files and symlinks and the total file size.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := db.Open(ctx, args[0], db.OpenOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Summary(ctx)
	if err != nil {
		return err
	}

	var size int64
	if fi, err := os.Stat(store.Path()); err == nil {
		size = fi.Size()
	}

	fmt.Printf("Catalog Information\n")
	fmt.Printf("===================\n\n")
	fmt.Printf("Catalog:      %s\n", store.Path())
	fmt.Printf("File Size:    %s\n", humanize.IBytes(uint64(size)))
	fmt.Printf("\nStatistics\n")
	fmt.Printf("----------\n")
	fmt.Printf("Entries:      %s\n", humanize.Comma(sum.Entries))
	fmt.Printf("Directories:  %s\n", humanize.Comma(sum.Dirs))
	fmt.Printf("Files:        %s\n", humanize.Comma(sum.Files))
	fmt.Printf("Symlinks:     %s\n", humanize.Comma(sum.Symlinks))
	fmt.Printf("Total Size:   %s\n", sizefmt.Format(sum.TotalSize))

	return nil
}
