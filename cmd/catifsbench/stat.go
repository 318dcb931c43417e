package main

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/scan"
)

var statCmd = &cobra.Command{
	Use:   "stat <dir>",
	Short: "Measure walk and lstat throughput without writing a catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

var (
	statLimit   int
	statWorkers int
	statInline  bool
)

func init() {
	statCmd.Flags().IntVar(&statLimit, "limit", 200000, "Max entries to sample (0 = all)")
	statCmd.Flags().IntVarP(&statWorkers, "workers", "w", 8, "Concurrent lstat workers")
	statCmd.Flags().BoolVar(&statInline, "inline", false, "Normalize during the walk instead of after it")
}

func runStat(cmd *cobra.Command, args []string) error {
	if statWorkers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", statWorkers)
	}
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	walker, err := scan.NewWalker(root, nil)
	if err != nil {
		return err
	}

	var statCount, errCount, totalDur int64
	normalize := func(path string) {
		t0 := time.Now()
		_, err := scan.Normalize(root, path)
		atomic.AddInt64(&totalDur, time.Since(t0).Microseconds())
		atomic.AddInt64(&statCount, 1)
		if err != nil {
			atomic.AddInt64(&errCount, 1)
		}
	}

	pathCh := make(chan string, statWorkers*4)
	var wg sync.WaitGroup
	for i := 0; i < statWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathCh {
				normalize(path)
			}
		}()
	}

	var paths []string
	var walkErr error
	seen := 0
	start := time.Now()
	for e, err := range walker.Entries() {
		if err != nil {
			walkErr = err
			break
		}
		if statInline {
			pathCh <- e.RealPath
		} else {
			paths = append(paths, e.RealPath)
		}
		seen++
		if statLimit > 0 && seen >= statLimit {
			break
		}
	}
	walkDur := time.Since(start)

	start = time.Now()
	for _, p := range paths {
		pathCh <- p
	}
	close(pathCh)
	wg.Wait()
	elapsed := time.Since(start)
	if statInline {
		elapsed += walkDur
	}
	if walkErr != nil {
		return fmt.Errorf("walk error: %w", walkErr)
	}

	avg := time.Duration(0)
	if statCount > 0 {
		avg = time.Duration(totalDur/statCount) * time.Microsecond
	}

	fmt.Printf("dir=%s entries=%d workers=%d inline=%t\n", root, statCount, statWorkers, statInline)
	fmt.Printf("walk:    %v\n", walkDur)
	fmt.Printf("lstat:   calls=%d avg=%v total=%v errors=%d\n", statCount, avg, elapsed, errCount)
	if elapsed.Seconds() > 0 {
		fmt.Printf("throughput: %.0f stats/sec\n", float64(statCount)/elapsed.Seconds())
	}
	return nil
}
