package mro

import (
	"errors"
	"strconv"
	"strings"

	"github.com/brushtech/mro/qb"
)

// ToSQL renders the SELECT statement and its arguments, and resets the
// builder.
func (b *Builder) ToSQL() (string, []any, error) {
	cond, whereArgs, err := qb.Build(b.schema.table, "AND", false, b.exprs...)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder

	sb.WriteString("SELECT ")

	if len(b.cols) < 1 {
		sb.WriteString("*")
	} else {
		sb.WriteString("`")
		sb.WriteString(b.schema.table)
		sb.WriteString("`.`")
		sb.WriteString(strings.Join(b.cols, "`, `"+b.schema.table+"`.`"))
		sb.WriteString("`")
	}

	sb.WriteString(" FROM ")
	sb.WriteString(qb.Quote(b.schema.table, ""))

	if cond != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(cond)
		b.args = append(b.args, whereArgs...)
	}

	if b.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.order)
	}

	if b.limit > -1 {
		sb.WriteString(" LIMIT ")

		if b.offset > -1 {
			sb.WriteString(strconv.Itoa(b.offset))
			sb.WriteString(", ")
		}

		sb.WriteString(strconv.Itoa(b.limit))
	}

	sq, args := sb.String(), b.args

	logSQL(sq, args)

	b.reset()

	return sq, args, nil
}

// Iter executes the SELECT and returns a lazy cursor over the matching
// records, in database order.
func (b *Builder) Iter() (*RecordSet, error) {
	schema := b.schema

	sq, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := b.executor.Query(sq, args...)
	if err != nil {
		return nil, err
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	return &RecordSet{schema: schema, rows: rows, cols: cols}, nil
}

// All executes the SELECT and drains the cursor.
func (b *Builder) All() ([]*Record, error) {
	rs, err := b.Iter()
	if err != nil {
		return nil, err
	}
	return rs.All()
}

// First executes the SELECT and returns the first record, or nil if no
// row matched.
func (b *Builder) First() (*Record, error) {
	rs, err := b.Limit(1).Iter()
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	if !rs.Next() {
		return nil, rs.Err()
	}
	return rs.Record(), nil
}

// Select returns the rows matching a raw WHERE predicate with $name
// placeholders bound from vars:
//
//	rs, err := users.Select(db, "username LIKE $u", qb.H{"u": "ab%"})
//
// An empty predicate selects the whole table. The result is lazy and
// restartable only by re-issuing the call.
func (s *Schema) Select(db Executor, where string, vars qb.H) (*RecordSet, error) {
	b := s.Query(db)
	if where != "" {
		b.Where(qb.Bind(where, vars))
	} else if len(vars) > 0 {
		return nil, &FieldError{Msg: "vars given without a where predicate"}
	}
	return b.Iter()
}

// FindByKey loads the single row matching key: integer-shaped keys look
// up the primary key, anything else the secondary key. A miss is a
// *KeyError.
func (s *Schema) FindByKey(db Executor, key any) (*Record, error) {
	field := s.sk
	if isIntKey(key) {
		field = s.pk
	}
	if field == "" {
		return nil, &FieldError{Msg: s.table + ": no secondary key declared"}
	}

	rec, err := s.Query(db).Where(qb.Eq(field, key)).First()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &KeyError{Table: s.table, Field: field, Key: key}
	}
	return rec, nil
}

// Get is FindByKey except that a miss is a normal outcome: it returns
// (nil, nil) when no row matches.
func (s *Schema) Get(db Executor, key any) (*Record, error) {
	rec, err := s.FindByKey(db, key)

	var ke *KeyError
	if errors.As(err, &ke) {
		return nil, nil
	}
	return rec, err
}

func isIntKey(key any) bool {
	switch key.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// RecordSet iterates a query result one record at a time, in the order
// returned by the database.
type RecordSet struct {
	schema *Schema
	rows   Rows
	cols   []string

	rec *Record
	err error
}

// Next advances to the next record, returning false at the end of the
// result or on error.
func (rs *RecordSet) Next() bool {
	if rs.err != nil {
		return false
	}
	if !rs.rows.Next() {
		rs.err = rs.rows.Err()
		return false
	}

	rec, err := rs.schema.scanRecord(rs.rows, rs.cols)
	if err != nil {
		rs.err = err
		return false
	}
	rs.rec = rec
	return true
}

// Record returns the record produced by the last successful Next.
func (rs *RecordSet) Record() *Record { return rs.rec }

func (rs *RecordSet) Err() error { return rs.err }

func (rs *RecordSet) Close() error { return rs.rows.Close() }

// All drains the cursor and closes it.
func (rs *RecordSet) All() ([]*Record, error) {
	defer rs.Close()

	var recs []*Record
	for rs.Next() {
		recs = append(recs, rs.Record())
	}
	return recs, rs.Err()
}
