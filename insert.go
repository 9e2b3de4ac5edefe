package mro

import (
	"strings"

	"github.com/brushtech/mro/qb"
)

// InsertSQL renders an INSERT of the given values, laid out in field
// declaration order. Fields absent from values are left to their SQL
// defaults.
func (b *Builder) InsertSQL(values qb.H) (string, []any, error) {
	return b.InsertMultiSQL([]qb.H{values})
}

// InsertMultiSQL renders a multi-row INSERT. The first row picks the
// column list; later rows contribute values for those columns (missing
// ones become NULL).
func (b *Builder) InsertMultiSQL(values []qb.H) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, &FieldError{Msg: "insert with no rows"}
	}

	cols, args, err := b.orderedValues(values[0])
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, &FieldError{Msg: "insert with no values"}
	}

	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(qb.Quote(b.schema.table, ""))
	sb.WriteString(" (`")
	sb.WriteString(strings.Join(cols, "`, `"))
	sb.WriteString("`) VALUES ")

	holders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	for row := 1; row < len(values); row++ {
		for _, col := range cols {
			args = append(args, values[row][col])
		}
	}
	for row := range values {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(holders)
	}

	sq := sb.String()

	logSQL(sq, args)

	b.reset()

	return sq, args, nil
}

// Insert writes the record as a new row over its set fields (never the
// primary key, which the database assigns) and stores the generated id
// back into the primary-key field.
func (r *Record) Insert(db Executor) error {
	sq, args, err := r.schema.Query(db).InsertSQL(r.setValues(true))
	if err != nil {
		return err
	}

	res, err := db.Exec(sq, args...)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if id != 0 {
		return r.Set(r.schema.pk, id)
	}
	return nil
}
