package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/entry"
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert synthetic rows into a throwaway catalog",
	Args:  cobra.NoArgs,
	RunE:  runInsert,
}

var (
	insertOut   string
	insertRows  int
	insertBatch int
	insertKeep  bool
)

func init() {
	insertCmd.Flags().StringVarP(&insertOut, "out", "o", ".", "Directory for the temporary catalog")
	insertCmd.Flags().IntVar(&insertRows, "rows", 100000, "Rows to insert")
	insertCmd.Flags().IntVar(&insertBatch, "batch", db.DefaultCheckpointEvery, "Insertions per checkpoint")
	insertCmd.Flags().BoolVar(&insertKeep, "keep", false, "Keep the catalog after the run")
}

func runInsert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := os.MkdirAll(insertOut, 0755); err != nil {
		return fmt.Errorf("mkdir error: %w", err)
	}

	catalogPath := filepath.Join(insertOut, fmt.Sprintf(".catifsbench-%d.sqlite", time.Now().UnixNano()))
	store, err := db.Open(ctx, catalogPath, db.OpenOptions{})
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		if !insertKeep {
			os.Remove(catalogPath)
		}
	}()

	var checkpoints int
	committer := store.NewCommitter(db.CommitterOptions{
		Every:        insertBatch,
		OnCheckpoint: func(db.Progress) { checkpoints++ },
	})
	if err := committer.Start(ctx); err != nil {
		return err
	}
	defer committer.Abort()

	now := time.Now()
	row := entry.CatalogEntry{
		Mode:       0o100644,
		LinkCount:  1,
		Size:       1234,
		BlockSize:  4096,
		BlockCount: 8,
		MtimeSec:   now.Unix(),
		MtimeNsec:  int64(now.Nanosecond()),
	}

	start := time.Now()
	for i := 0; i < insertRows; i++ {
		row.Path = fmt.Sprintf("/bench/%d", i)
		row.Inode = int64(i + 1)
		if err := committer.Insert(ctx, &row); err != nil {
			return err
		}
	}
	if err := committer.Finish(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("catalog=%s rows=%d batch=%d checkpoints=%d\n", catalogPath, insertRows, insertBatch, checkpoints)
	fmt.Printf("total: %v\n", elapsed)
	if elapsed.Seconds() > 0 {
		fmt.Printf("throughput: %.0f rows/sec\n", float64(insertRows)/elapsed.Seconds())
	}
	return nil
}
