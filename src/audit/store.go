// Package audit persists disregard diagnostics for later inspection.
package audit

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/GopherSecurity/eventchain/src/core"
)

// Record is one persisted disregard.
type Record struct {
	// ID is the row ID, assigned by the store.
	ID int64

	// Chain names the chain whose traversal was aborted.
	Chain string

	// Message is the diagnostic the filter passed to Disregard.
	Message string

	// CreatedAt is when the disregard was recorded.
	CreatedAt time.Time
}

// Store is a SQLite-backed audit trail of disregarded traversals. Its
// Recorder method adapts the store into a chain's disregard callback, so
// every abort a chain reports lands in the trail with its diagnostic.
//
// Example usage:
//
//	store, _ := audit.Open("audit.db")
//	chain, _ := core.NewFilterChainFunc(store.Recorder("ingress"))
type Store struct {
	db     *sql.DB
	logger *log.Logger
	cron   *cron.Cron
}

// Open creates or opens the audit database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db %s: %w", path, err)
	}

	// The store is written from disregard callbacks, which are
	// synchronous; one connection avoids SQLITE_BUSY on concurrent chains.
	db.SetMaxOpenConns(1)

	store := &Store{
		db:     db,
		logger: log.Default(),
	}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// SetLogger redirects the store's output, primarily for tests.
func (s *Store) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// initialize creates the schema.
func (s *Store) initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS disregards (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			chain      TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disregards_created_at ON disregards(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize audit schema: %w", err)
		}
	}
	return nil
}

// Record persists one disregard for the named chain.
func (s *Store) Record(chain, message string) error {
	_, err := s.db.Exec(
		`INSERT INTO disregards (chain, message, created_at) VALUES (?, ?, ?)`,
		chain, message, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record disregard: %w", err)
	}
	return nil
}

// Recorder returns a disregard callback that records into this store
// under the given chain name. Persistence failures are logged, not
// propagated: the disregard contract gives the callback no error path.
func (s *Store) Recorder(chainName string) core.DisregardFunc {
	return func(message string) {
		if err := s.Record(chainName, message); err != nil {
			s.logger.Printf("audit: %v", err)
		}
	}
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, chain, message, created_at FROM disregards ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query disregards: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Chain, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan disregard: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes records older than the retention period and returns the
// number removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.Exec(`DELETE FROM disregards WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune disregards: %w", err)
	}
	return result.RowsAffected()
}

// StartRetention schedules Prune on a cron schedule (standard five-field
// syntax, e.g. "0 3 * * *" for daily at 03:00).
//
// Returns:
//   - error: an invalid schedule, or one retention job already running
func (s *Store) StartRetention(schedule string, olderThan time.Duration) error {
	if s.cron != nil {
		return fmt.Errorf("retention already started")
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		pruned, err := s.Prune(olderThan)
		if err != nil {
			s.logger.Printf("audit retention: %v", err)
			return
		}
		if pruned > 0 {
			s.logger.Printf("audit retention: pruned %d records", pruned)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	return nil
}

// StopRetention halts the retention job, waiting for an in-flight prune.
func (s *Store) StopRetention() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil
}

// Close stops retention and closes the database.
func (s *Store) Close() error {
	s.StopRetention()
	return s.db.Close()
}
