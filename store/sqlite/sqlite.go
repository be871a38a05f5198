/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists saved loan definitions so they survive server restarts. In
  production the same schema works on PostgreSQL with minor dialect
  changes.

KEY TABLES:
  loans: id, name, config_json (factory.LoanJSON), version, timestamps

WHAT IS NOT STORED:
  Schedules, payments and scenario results. Those are recomputed from
  config_json on every request.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block the single writer.

USAGE:
  s, err := sqlite.New("./data/loans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer s.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/loan-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loans_name
		ON loans(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOAN STORE
// =============================================================================

// SaveLoan inserts a loan or replaces an existing one, bumping its version.
func (s *Store) SaveLoan(ctx context.Context, loan store.LoanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO loans (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = loans.version + 1,
			updated_at = excluded.updated_at
	`

	version := loan.Version
	if version == 0 {
		version = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		loan.ID, loan.Name, loan.ConfigJSON, version, now, now,
	)
	return err
}

// GetLoan retrieves a loan by ID. Returns nil, nil when missing.
func (s *Store) GetLoan(ctx context.Context, id string) (*store.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var l store.LoanRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM loans WHERE id = ?",
		id,
	).Scan(&l.ID, &l.Name, &l.ConfigJSON, &l.Version, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &l, nil
}

// ListLoans returns all loans ordered by name.
func (s *Store) ListLoans(ctx context.Context) ([]store.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM loans ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := []store.LoanRecord{}
	for rows.Next() {
		var l store.LoanRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.Name, &l.ConfigJSON, &l.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// DeleteLoan removes a loan.
func (s *Store) DeleteLoan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM loans WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrLoanNotFound
	}
	return nil
}

// Reset clears all data. Only use in development/demo environments.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM loans")
	return err
}
