// File: store/store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-club-hub/logger"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Store is the database-agnostic repository. A Store obtained inside
// WithTx routes every statement through the transaction.
type Store struct {
	db      *sql.DB
	q       querier
	dialect Dialect
	clock   func() time.Time
	inTx    bool
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, q: db, dialect: dialect, clock: time.Now}
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.SQLDriver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one connection keeps in-memory databases shared and serializes writers
		db.SetMaxOpenConns(1)
		for _, p := range []string{"PRAGMA busy_timeout=5000", "PRAGMA journal_mode=WAL"} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("set pragma %q: %w", p, err)
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info.Printf("Open: %s store ready", driver)
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Dialect returns the active dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// SetClock replaces the time source; tests use it to move through rate-limit windows.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

func (s *Store) now() int64 {
	return s.clock().Unix()
}

// WithTx runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back on error or panic. Inside fn only the tx store
// may be used; the outer store would wait on the single sqlite connection.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dialect: s.dialect, clock: s.clock, inTx: true}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logger.Error.Printf("WithTx: rollback failed: %v", rbErr)
			}
		}
	}()

	if err = fn(txStore); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// execAffected runs a statement and reports ErrNotFound when no row changed.
func (s *Store) execAffected(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

func fromNullID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
