// Package store is the relational persistence layer. All SQL is written in
// PostgreSQL style ($1, $2, ...) and rebound per dialect at execution time.
// File: store/dialect.go
package store

import (
	"fmt"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// Supported driver names as they appear in configuration.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialect hides the SQL differences between the supported databases.
type Dialect interface {
	// Name returns the configuration name of the dialect.
	Name() string
	// SQLDriver returns the database/sql driver name to open.
	SQLDriver() string
	// Rebind converts $N placeholders to the target syntax.
	Rebind(query string) string
	// Schema returns the DDL with dialect-specific column types filled in.
	Schema() string
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }
func (postgresDialect) SQLDriver() string { return "pgx" }
func (postgresDialect) Rebind(query string) string { return query }

func (postgresDialect) Schema() string {
	return strings.NewReplacer("{{id}}", "BIGSERIAL PRIMARY KEY").Replace(schema)
}

// sqliteDialect rebinds to numbered ?N parameters so one argument can be
// referenced several times, as it can in PostgreSQL.
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }
func (sqliteDialect) SQLDriver() string { return "sqlite" }

func (sqliteDialect) Rebind(query string) string {
	return placeholderRe.ReplaceAllString(query, "?${1}")
}

func (sqliteDialect) Schema() string {
	return strings.NewReplacer("{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT").Replace(schema)
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return postgresDialect{}, nil
	case DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
