package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/catalog"
	"github.com/michaelscutari/catifs/internal/sizefmt"
)

var rescanCmd = &cobra.Command{
	Use:   "rescan <catalog> <dir>",
	Short: "Catalog a tree, replacing rows that are already cataloged",
	Long: `rescan walks the tree like the root command but overwrites catalog rows
that collide on inode or path instead of failing. Rows for entries that no
longer exist are left in place.`,
	Args: cobra.ExactArgs(2),
	RunE: runRescan,
}

func init() {
	addScanFlags(rescanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("xdev", false, "Don't descend into directories on other filesystems")
	cmd.Flags().StringSliceP("exclude", "e", nil, "Regex patterns of real paths to skip (can be repeated)")
	cmd.Flags().Int("checkpoint", 1000, "Number of insertions between commits")
	cmd.Flags().Bool("lock", true, "Hold <catalog>.lock while writing")
}

func runScan(cmd *cobra.Command, args []string) error {
	return scanInto(args[0], args[1], false)
}

func runRescan(cmd *cobra.Command, args []string) error {
	return scanInto(args[0], args[1], true)
}

func scanInto(catalogPath, root string, replace bool) error {
	opts, err := cfg.ScanOptions()
	if err != nil {
		return err
	}
	opts.WithReplace(replace)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	mgr := catalog.NewManager(catalogPath)
	mgr.SetLocking(cfg.Lock)

	startTime := time.Now()
	log.Debugf("[CLI] SCAN root=%s catalog=%s replace=%t", root, catalogPath, replace)

	progress, err := mgr.RunScan(ctx, root, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("scan canceled after %s entries: %w", humanize.Comma(progress.Count), err)
		}
		return err
	}

	log.Infof("cataloged %s entries (%s directories, %s files, %s symlinks, %s) in %s",
		humanize.Comma(progress.Count),
		humanize.Comma(progress.Dirs),
		humanize.Comma(progress.Files),
		humanize.Comma(progress.Symlinks),
		sizefmt.Format(progress.TotalSize),
		time.Since(startTime).Round(time.Millisecond))
	return nil
}
