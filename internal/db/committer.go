package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/michaelscutari/catifs/internal/entry"
)

const catifsColumns = `path, real_path, st_dev, st_ino, st_mode, st_nlink, st_uid, st_gid, st_rdev,
  st_size, st_blksize, st_blocks, st_atim_sec, st_atim_nsec, st_mtim_sec, st_mtim_nsec,
  st_ctim_sec, st_ctim_nsec, is_dir, is_link`

const insertEntrySQL = `INSERT INTO catifs (` + catifsColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const replaceEntrySQL = `INSERT OR REPLACE INTO catifs (` + catifsColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// DefaultCheckpointEvery is the number of insertions between durable commits.
const DefaultCheckpointEvery = 1000

// Progress holds the running counters of a bulk insert.
type Progress struct {
	Count     int64
	Dirs      int64
	Files     int64
	Symlinks  int64
	TotalSize int64  // Sum of st_size over regular files
	LastPath  string // Catalog path of the latest insertion
}

// CheckpointFunc is called after every checkpoint commit.
type CheckpointFunc func(Progress)

// CommitterOptions configures a Committer.
type CommitterOptions struct {
	// Every is the checkpoint interval. Zero means DefaultCheckpointEvery.
	Every int

	// Replace overwrites rows that collide on inode or path instead of
	// failing. Only the explicit rescan operation sets it.
	Replace bool

	OnCheckpoint CheckpointFunc
}

// Committer inserts catalog rows inside an open transaction and commits it
// every Every insertions. Rows after the last checkpoint are committed by
// Finish; anything else rolls them back.
type Committer struct {
	store        *Store
	every        int64
	replace      bool
	onCheckpoint CheckpointFunc

	stmt   *sql.Stmt
	tx     *sql.Tx
	txStmt *sql.Stmt

	progress Progress
}

// NewCommitter creates a committer writing to the store.
func (s *Store) NewCommitter(opts CommitterOptions) *Committer {
	every := opts.Every
	if every <= 0 {
		every = DefaultCheckpointEvery
	}
	return &Committer{
		store:        s,
		every:        int64(every),
		replace:      opts.Replace,
		onCheckpoint: opts.OnCheckpoint,
	}
}

// Start prepares the insert statement. It must be called before Insert.
func (c *Committer) Start(ctx context.Context) error {
	query := insertEntrySQL
	if c.replace {
		query = replaceEntrySQL
		c.store.inodes.Reset()
	}

	stmt, err := c.store.sqlDB.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare entry statement: %w", err)
	}
	c.stmt = stmt
	log.Debugf("[COMMITTER] STARTED every=%d replace=%t", c.every, c.replace)
	return nil
}

// Insert writes one row into the current transaction.
func (c *Committer) Insert(ctx context.Context, e *entry.CatalogEntry) error {
	if c.stmt == nil {
		return fmt.Errorf("committer not started")
	}
	if c.tx == nil {
		if err := c.begin(ctx); err != nil {
			return err
		}
	}

	_, err := c.txStmt.ExecContext(ctx,
		e.Path, e.RealPath, e.Device, e.Inode, e.Mode, e.LinkCount, e.UID, e.GID, e.Rdev,
		e.Size, e.BlockSize, e.BlockCount,
		e.AtimeSec, e.AtimeNsec, e.MtimeSec, e.MtimeNsec, e.CtimeSec, e.CtimeNsec,
		e.IsDir, e.IsLink,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %q: %w", e.Path, classifyConstraint(err))
	}

	c.progress.Count++
	switch {
	case e.IsDir:
		c.progress.Dirs++
	case e.IsLink:
		c.progress.Symlinks++
	default:
		c.progress.Files++
		c.progress.TotalSize += e.Size
	}
	c.progress.LastPath = e.Path

	if c.progress.Count%c.every == 0 {
		if err := c.checkpoint(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Committer) begin(ctx context.Context) error {
	tx, err := c.store.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	c.tx = tx
	c.txStmt = tx.StmtContext(ctx, c.stmt)
	return nil
}

func (c *Committer) commit() error {
	if c.tx == nil {
		return nil
	}
	start := time.Now()
	err := c.tx.Commit()
	c.txStmt.Close()
	c.tx, c.txStmt = nil, nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debugf("[COMMITTER] COMMIT count=%d took=%v", c.progress.Count, time.Since(start))
	return nil
}

func (c *Committer) checkpoint() error {
	if err := c.commit(); err != nil {
		return err
	}
	if c.onCheckpoint != nil {
		c.onCheckpoint(c.progress)
	}
	return nil
}

// Finish commits the final partial batch and releases the statement.
func (c *Committer) Finish() error {
	err := c.commit()
	c.closeStmt()
	return err
}

// Abort rolls back uncommitted rows. It is a no-op after Finish.
func (c *Committer) Abort() {
	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil {
			log.WithError(err).Debug("[COMMITTER] rollback failed")
		}
		c.txStmt.Close()
		c.tx, c.txStmt = nil, nil
		log.Debugf("[COMMITTER] ABORTED committed=%d", c.progress.Count-c.pending())
	}
	c.closeStmt()
}

func (c *Committer) closeStmt() {
	if c.stmt != nil {
		c.stmt.Close()
		c.stmt = nil
	}
}

// pending is the number of insertions since the last checkpoint.
func (c *Committer) pending() int64 {
	return c.progress.Count % c.every
}

// Progress returns the running counters.
func (c *Committer) Progress() Progress {
	return c.progress
}
