// Package store is the persistent SQLite-backed state store from spec
// §4.4: chat settings, admins, filters, message log, incoming-update
// snapshots, and process-wide key/value settings. It opens one pooled
// connection the way the teacher's core/database/connection.go opens
// gorm's *sql.DB — single max-open-conn, WAL mode, foreign keys on — but
// talks to it with raw database/sql rather than gorm, because the spec's
// PRAGMA list (synchronous, temp_store, cache_size, busy_timeout) has no
// generic-dialect equivalent in gorm; the teacher's own usecase/cache.go
// drops to raw database/sql for the same reason when it needs exact
// control over a SQLite file.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Store wraps the pooled *sql.DB and the logger every repository method
// tags with "[STORE]", matching the teacher's bracketed-component
// logging convention.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open connects to the SQLite file at path, applies the pragmas spec §4.4
// requires, and runs the idempotent schema migration before returning.
func Open(path string, log *logrus.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=3000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// A single writer connection avoids SQLITE_BUSY under WAL for this
	// process's workload (spec §4.4 "single pooled connection, or borrows
	// from a pool"), mirroring the teacher's SetMaxOpenConns(1) for sqlite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -20000", // ~20MB page cache
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: log.WithField("component", "STORE")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
