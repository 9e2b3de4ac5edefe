package mro

import (
	"fmt"
	"strings"
	"time"

	"github.com/brushtech/mro/qb"
)

// Record holds current values for one row of a schema. The field set is
// always exactly the declared field set; values start unset and unset
// fields fall back to their SQL defaults at insert time.
type Record struct {
	schema *Schema
	values []any
	isSet  []bool
}

// NewRecord builds a new, unsaved record from the given values. Names
// not declared on the schema are an error.
func (s *Schema) NewRecord(values qb.H) (*Record, error) {
	r := &Record{
		schema: s,
		values: make([]any, len(s.fields)),
		isSet:  make([]bool, len(s.fields)),
	}
	for name, val := range values {
		if err := r.Set(name, val); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Record) Schema() *Schema { return r.schema }

func (r *Record) Set(name string, val any) error {
	i, ok := r.schema.byName[name]
	if !ok {
		return &FieldError{Field: name, Msg: "not declared on " + r.schema.table}
	}
	r.values[i] = val
	r.isSet[i] = true
	return nil
}

// Get returns the field's current value and whether it has been set.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.schema.byName[name]
	if !ok || !r.isSet[i] {
		return nil, false
	}
	return r.values[i], true
}

// GetString returns the field as a string, or "" if unset or not
// string-shaped.
func (r *Record) GetString(name string) string {
	v, _ := r.Get(name)
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

// GetInt returns the field as an int64, or 0 if unset or not
// integer-shaped.
func (r *Record) GetInt(name string) int64 {
	v, _ := r.Get(name)
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	}
	return 0
}

// GetTime returns the field as a time.Time, or the zero time if unset.
func (r *Record) GetTime(name string) time.Time {
	v, _ := r.Get(name)
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Key returns the primary-key value, if set.
func (r *Record) Key() (any, bool) {
	return r.Get(r.schema.pk)
}

// Save persists the record: insert if the primary key holds no value
// yet, update otherwise.
func (r *Record) Save(db Executor) error {
	if _, ok := r.Key(); ok {
		return r.Update(db)
	}
	return r.Insert(db)
}

// setValues returns the set fields in declaration order, optionally
// skipping the primary key.
func (r *Record) setValues(excludeKey bool) qb.H {
	values := make(qb.H, len(r.values))
	for i, f := range r.schema.fields {
		if !r.isSet[i] || (excludeKey && f.Name == r.schema.pk) {
			continue
		}
		values[f.Name] = r.values[i]
	}
	return values
}

// String renders the set fields in declaration order, e.g.
// users(username="bob", hash="1234").
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.schema.table)
	sb.WriteString("(")
	n := 0
	for i, f := range r.schema.fields {
		if !r.isSet[i] {
			continue
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%#v", f.Name, r.values[i])
		n++
	}
	sb.WriteString(")")
	return sb.String()
}

// scanRecord populates a record from the current row. Byte slices are
// normalized to strings; column names must be declared on the schema.
func (s *Schema) scanRecord(rows Rows, cols []string) (*Record, error) {
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	r, _ := s.NewRecord(nil)
	for i, col := range cols {
		v := *(dest[i].(*any))
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		if err := r.Set(col, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}
