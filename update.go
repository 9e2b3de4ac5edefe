package mro

import (
	"strconv"
	"strings"

	"github.com/brushtech/mro/qb"
)

// UpdateSQL renders an UPDATE of the given values, laid out in field
// declaration order. A whereless update is refused.
func (b *Builder) UpdateSQL(values qb.H) (string, []any, error) {
	cond, whereArgs, err := qb.Build(b.schema.table, "AND", false, b.exprs...)
	if err != nil {
		return "", nil, err
	}
	if cond == "" {
		return "", nil, &FieldError{Msg: "not allow updating rows with no where conditions"}
	}

	cols, args, err := b.orderedValues(values)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, &FieldError{Msg: "update with no values"}
	}

	var sb strings.Builder

	sb.WriteString("UPDATE ")
	sb.WriteString(qb.Quote(b.schema.table, ""))
	sb.WriteString(" SET")

	for i, col := range cols {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(qb.Quote(b.schema.table, col))
		sb.WriteString(" = ?")
	}

	sb.WriteString(" WHERE ")
	sb.WriteString(cond)
	args = append(args, whereArgs...)

	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	sq := sb.String()

	logSQL(sq, args)

	b.reset()

	return sq, args, nil
}

// Update executes UpdateSQL through the builder's executor.
func (b *Builder) Update(values qb.H) error {
	executor := b.executor

	sq, args, err := b.UpdateSQL(values)
	if err != nil {
		return err
	}

	_, err = executor.Exec(sq, args...)
	return err
}

// Update rewrites the row identified by the record's primary key with
// all currently set field values.
func (r *Record) Update(db Executor) error {
	key, ok := r.Key()
	if !ok {
		return &FieldError{Field: r.schema.pk, Msg: "no primary key value to update by"}
	}

	values := r.setValues(true)
	if len(values) == 0 {
		return nil
	}

	return r.schema.Query(db).Where(qb.Eq(r.schema.pk, key)).Update(values)
}
