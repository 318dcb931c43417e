package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// OpenOptions controls how a catalog store is opened.
type OpenOptions struct {
	// ReadOnly opens an existing catalog for inspection. A missing catalog
	// is an error instead of being created.
	ReadOnly bool

	// Lock takes an exclusive advisory lock on "<catalog>.lock" for the
	// lifetime of the store. Ignored when ReadOnly is set.
	Lock bool

	// NoCreate refuses to bootstrap a missing catalog.
	NoCreate bool
}

// Store is an open catalog. It owns a single connection for the whole
// session; Close flushes and releases it.
type Store struct {
	path     string
	sqlDB    *sql.DB
	bunDB    *bun.DB
	lock     *flock.Flock
	readOnly bool
	created  bool
	inodes   *inodeCache
}

// Open opens the catalog at path. When no file exists there, the file is
// created and the schema is materialized unless ReadOnly or NoCreate is
// set; an existing file is trusted as-is.
func Open(ctx context.Context, path string, opts OpenOptions) (*Store, error) {
	exists := true
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, unavailable(path, err)
		}
		exists = false
	}
	if !exists && (opts.ReadOnly || opts.NoCreate) {
		return nil, unavailable(path, os.ErrNotExist)
	}

	s := &Store{
		path:     path,
		readOnly: opts.ReadOnly,
		inodes:   newInodeCache(inodeCacheSize),
	}

	if opts.Lock && !opts.ReadOnly {
		if err := s.acquireLock(); err != nil {
			return nil, unavailable(path, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		s.releaseLock()
		return nil, unavailable(path, err)
	}
	// One connection: per-connection pragmas stay in effect and writes are
	// serialized through a single handle.
	sqlDB.SetMaxOpenConns(1)
	s.sqlDB = sqlDB

	if err := s.init(ctx, exists); err != nil {
		sqlDB.Close()
		s.releaseLock()
		return nil, unavailable(path, err)
	}

	s.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
	return s, nil
}

func (s *Store) init(ctx context.Context, exists bool) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := ApplyConnPragmas(s.sqlDB); err != nil {
		return err
	}

	if s.readOnly {
		return ApplyReadPragmas(s.sqlDB)
	}

	if !exists {
		log.Debugf("[STORE] BOOTSTRAP path=%s", s.path)
		err := withLockRetry(ctx, func() error {
			return InitSchema(ctx, s.sqlDB)
		})
		if err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		s.created = true
	}

	return ApplyWritePragmas(s.sqlDB)
}

func (s *Store) acquireLock() error {
	fl := flock.New(s.path + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock catalog: %w", err)
	}
	if !locked {
		return fmt.Errorf("another writer holds %s", fl.Path())
	}
	s.lock = fl
	return nil
}

func (s *Store) releaseLock() {
	if s.lock != nil {
		s.lock.Unlock()
		s.lock = nil
	}
}

// Path returns the catalog file location.
func (s *Store) Path() string { return s.path }

// Created reports whether Open materialized the schema.
func (s *Store) Created() bool { return s.created }

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB { return s.sqlDB }

// Close finalizes a writable catalog, closes the connection and releases
// the writer lock. It is safe to call more than once.
func (s *Store) Close() error {
	if s.sqlDB == nil {
		return nil
	}

	if !s.readOnly {
		// journal_mode cannot change while another process has the file
		// open; committed data is unaffected, so this is best-effort.
		if err := Finalize(s.sqlDB); err != nil {
			log.WithError(err).Warnf("failed to finalize catalog %s", s.path)
		}
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	s.releaseLock()

	if err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	return nil
}
