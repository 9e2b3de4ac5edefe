package mro

import (
	"strconv"
	"strings"

	"github.com/brushtech/mro/qb"
)

// DeleteSQL renders a DELETE for the builder's conditions. A whereless
// delete is refused.
func (b *Builder) DeleteSQL() (string, []any, error) {
	cond, whereArgs, err := qb.Build(b.schema.table, "AND", false, b.exprs...)
	if err != nil {
		return "", nil, err
	}
	if cond == "" {
		return "", nil, &FieldError{Msg: "not allow deleting rows with no where conditions"}
	}

	var sb strings.Builder

	sb.WriteString("DELETE FROM ")
	sb.WriteString(qb.Quote(b.schema.table, ""))
	sb.WriteString(" WHERE ")
	sb.WriteString(cond)

	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	sq, args := sb.String(), whereArgs

	logSQL(sq, args)

	b.reset()

	return sq, args, nil
}

// Delete executes DeleteSQL through the builder's executor.
func (b *Builder) Delete() error {
	executor := b.executor

	sq, args, err := b.DeleteSQL()
	if err != nil {
		return err
	}

	_, err = executor.Exec(sq, args...)
	return err
}

// Delete removes the row identified by the record's primary key. A
// record that was never saved has no key and cannot be deleted.
func (r *Record) Delete(db Executor) error {
	key, ok := r.Key()
	if !ok {
		return &FieldError{Field: r.schema.pk, Msg: "no primary key value to delete by"}
	}

	return r.schema.Query(db).Where(qb.Eq(r.schema.pk, key)).Delete()
}
