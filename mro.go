// Package mro maps MySQL table rows to in-memory records.
//
// A Schema is an ordered list of field declarations for one table. It
// builds the table's CREATE TABLE statement and translates between rows
// and Record values for insert, update, keyed lookup and filtered
// select. The database connection is owned by the caller and passed
// into every operation as an Executor.
package mro

import (
	"database/sql"
	"log"
)

// Executor runs SQL statements. *DB adapts a *sql.DB to it; tests
// substitute fakes.
type Executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (Rows, error)
}

// Rows is the subset of *sql.Rows the mapper reads results through.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DB adapts a *sql.DB to the Executor interface.
type DB struct {
	db *sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.db.Exec(query, args...)
}

func (d *DB) Query(query string, args ...any) (Rows, error) {
	return d.db.Query(query, args...)
}

// Verbose controls statement logging. On by default.
var Verbose = true

func logSQL(query string, args []any) {
	if !Verbose {
		return
	}
	log.Printf("[SQL] %s\n", query)
	if len(args) > 0 {
		log.Printf("[SQL] %+v\n", args)
	}
}
