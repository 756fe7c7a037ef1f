package sqlstore

import (
	"errors"
	"strings"

	rice "github.com/GeertJohan/go.rice"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// A dialect binds a database/sql driver to its schema and error codes.
type dialect struct {
	driver string

	// v0Schema creates the migration bookkeeping table.
	v0Schema string

	schemaBox func() (*rice.Box, error)

	// dsn rewrites the configured connection string, if set.
	dsn func(connection string) string

	// setup runs once on a freshly opened connection pool.
	setup func(db *sqlx.DB)

	isUniquenessError func(err error) bool
}

const pgV0Schema = `
CREATE TABLE IF NOT EXISTS _schema (
	version integer UNIQUE,
	created_at timestamp with time zone DEFAULT now()
);
`

const sqliteV0Schema = `
CREATE TABLE IF NOT EXISTS _schema (
	version INTEGER UNIQUE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func postgresBox() (*rice.Box, error) {
	return rice.FindBox("schema/postgres")
}

func sqliteBox() (*rice.Box, error) {
	return rice.FindBox("schema/sqlite")
}

func pqUniquenessError(err error) bool {
	var pqe *pq.Error
	return errors.As(err, &pqe) && pqe.Code == pq.ErrorCode(pgUniqueViolation)
}

func pgxUniquenessError(err error) bool {
	var pge *pgconn.PgError
	return errors.As(err, &pge) && pge.Code == pgUniqueViolation
}

func sqliteUniquenessError(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// sqliteDSN turns on the pragmas every connection needs. foreign_keys is
// off by default in sqlite.
func sqliteDSN(connection string) string {
	sep := "?"
	if strings.Contains(connection, "?") {
		sep = "&"
	}
	if !strings.Contains(connection, "foreign_keys") {
		connection += sep + "_pragma=foreign_keys(1)"
		sep = "&"
	}
	if !strings.Contains(connection, "busy_timeout") {
		connection += sep + "_pragma=busy_timeout(5000)"
	}
	return connection
}

func sqliteSetup(db *sqlx.DB) {
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
}

var dialects = map[string]*dialect{
	"postgres": {
		driver:            "postgres",
		v0Schema:          pgV0Schema,
		schemaBox:         postgresBox,
		isUniquenessError: pqUniquenessError,
	},
	"pgx": {
		driver:            "pgx",
		v0Schema:          pgV0Schema,
		schemaBox:         postgresBox,
		isUniquenessError: pgxUniquenessError,
	},
	"sqlite": {
		driver:            "sqlite",
		v0Schema:          sqliteV0Schema,
		schemaBox:         sqliteBox,
		dsn:               sqliteDSN,
		setup:             sqliteSetup,
		isUniquenessError: sqliteUniquenessError,
	},
}

func init() {
	// sqlx knows the bindvar style of postgres and pgx already.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}
