package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The catalog layout is shared with the mount component and must not change.
const catifsTableDDL = `
CREATE TABLE catifs(
  path TEXT NOT NULL,
  real_path TEXT,
  st_dev INT,
  st_ino INT PRIMARY KEY,
  st_mode INT,
  st_nlink INT,
  st_uid INT,
  st_gid INT,
  st_rdev INT,
  st_size INT,
  st_blksize INT,
  st_blocks INT,
  st_atim_sec INT,
  st_atim_nsec INT,
  st_mtim_sec INT,
  st_mtim_nsec INT,
  st_ctim_sec INT,
  st_ctim_nsec INT,
  is_dir BOOL,
  is_link BOOL
);
`

const catifsPathIndexDDL = `CREATE UNIQUE INDEX idx_catifs_path ON catifs (path);`

const catifsAttrsTableDDL = `
CREATE TABLE catifs_attrs(
  st_ino INT NOT NULL REFERENCES catifs (st_ino),
  name TEXT NOT NULL,
  value TEXT NOT NULL,
 PRIMARY KEY (st_ino, name)
);
`

// InitSchema creates both catalog tables and the path index in a single
// transaction. It must only be called on a fresh database.
func InitSchema(ctx context.Context, db *sql.DB) error {
	ddls := []string{
		catifsTableDDL,
		catifsPathIndexDDL,
		catifsAttrsTableDDL,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range ddls {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

func execPragmas(db *sql.DB, pragmas ...string) error {
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// ApplyConnPragmas sets per-connection options every catalog session needs.
func ApplyConnPragmas(db *sql.DB) error {
	return execPragmas(db,
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	)
}

// ApplyWritePragmas configures SQLite for bulk ingestion. Checkpoint commits
// are fully synced.
func ApplyWritePragmas(db *sql.DB) error {
	return execPragmas(db,
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA cache_size = -64000", // 64MB
		"PRAGMA temp_store = MEMORY",
	)
}

// ApplyReadPragmas configures SQLite for read-only inspection.
func ApplyReadPragmas(db *sql.DB) error {
	return execPragmas(db,
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA query_only = ON",
	)
}

// Finalize leaves a plain rollback-journal file behind for the mount.
func Finalize(db *sql.DB) error {
	if err := execPragmas(db, "PRAGMA optimize"); err != nil {
		return err
	}
	return execPragmas(db, "PRAGMA journal_mode = DELETE")
}
