package mro

import "strings"

// Field declares one column: its name, SQL type and constraints. Fields
// are plain values and are not mutated after schema construction.
type Field struct {
	Name    string
	SQLType string

	PrimaryKey   bool
	SecondaryKey bool
	NotNull      bool
	Default      string // raw SQL expression, empty for none

	Indexed   bool
	IndexExpr string // raw indexing expression, e.g. "LOWER(`username`)"

	Extra []string // raw constraint clauses, appended verbatim
}

type Option func(*Field)

// PrimaryKey marks the column as the row identifier. Exactly one field
// per schema carries it.
func PrimaryKey() Option {
	return func(f *Field) { f.PrimaryKey = true }
}

// SecondaryKey marks the column as an alternate unique lookup key, like
// a username or slug. It implies NOT NULL UNIQUE and an index.
func SecondaryKey() Option {
	return func(f *Field) {
		f.SecondaryKey = true
		f.Indexed = true
	}
}

func NotNull() Option {
	return func(f *Field) { f.NotNull = true }
}

// Default sets the SQL-side default expression applied when no value is
// supplied at insert, e.g. Default("CURRENT_TIMESTAMP") or Default("'NZD'").
func Default(expr string) Option {
	return func(f *Field) { f.Default = expr }
}

func Indexed() Option {
	return func(f *Field) { f.Indexed = true }
}

// IndexedBy indexes the column through a raw SQL expression instead of
// the bare column, e.g. IndexedBy("LOWER(`username`)").
func IndexedBy(expr string) Option {
	return func(f *Field) {
		f.Indexed = true
		f.IndexExpr = expr
	}
}

// Constraint appends a raw constraint clause to the column definition.
func Constraint(clause string) Option {
	return func(f *Field) { f.Extra = append(f.Extra, clause) }
}

// Column declares a field with an explicit SQL type.
func Column(name, sqlType string, opts ...Option) Field {
	f := Field{Name: name, SQLType: sqlType}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Serial is an auto-incrementing integer, normally the primary key.
func Serial(name string, opts ...Option) Field {
	return Column(name, "SERIAL", opts...)
}

func Integer(name string, opts ...Option) Field {
	return Column(name, "INTEGER", opts...)
}

// String is VARCHAR(255); MySQL cannot put a unique key on a bare TEXT
// column, and secondary keys are strings.
func String(name string, opts ...Option) Field {
	return Column(name, "VARCHAR(255)", opts...)
}

func Text(name string, opts ...Option) Field {
	return Column(name, "TEXT", opts...)
}

func Date(name string, opts ...Option) Field {
	return Column(name, "DATE", opts...)
}

func Timestamp(name string, opts ...Option) Field {
	return Column(name, "DATETIME", opts...)
}

// Inet stores a textual IPv4/IPv6 address.
func Inet(name string, opts ...Option) Field {
	return Column(name, "VARCHAR(45)", opts...)
}

// columnSQL renders the column definition used by CREATE TABLE and
// ALTER TABLE ADD COLUMN.
func (f Field) columnSQL() string {
	var sb strings.Builder

	sb.WriteString("`")
	sb.WriteString(f.Name)
	sb.WriteString("` ")
	sb.WriteString(f.SQLType)

	if f.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if f.SecondaryKey {
		sb.WriteString(" NOT NULL UNIQUE")
	}
	if f.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(f.Default)
	}
	if f.NotNull && !f.SecondaryKey {
		sb.WriteString(" NOT NULL")
	}
	for _, clause := range f.Extra {
		sb.WriteString(" ")
		sb.WriteString(clause)
	}

	return sb.String()
}
