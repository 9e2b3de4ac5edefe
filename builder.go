package mro

import "github.com/brushtech/mro/qb"

// Builder assembles one SELECT, UPDATE or DELETE against a schema's
// table. Obtained from Schema.Query; single-use (terminal methods reset
// it).
type Builder struct {
	executor Executor
	schema   *Schema

	cols  []string
	exprs []qb.Expr
	args  []any

	order         string
	offset, limit int
}

// Query starts a statement against the schema's table, executed through
// db.
func (s *Schema) Query(db Executor) *Builder {
	return (&Builder{executor: db, schema: s}).reset()
}

func (b *Builder) reset() *Builder {
	b.args = []any{}

	b.cols = []string{}
	b.exprs = []qb.Expr{}

	b.order = ""

	b.offset = -1
	b.limit = -1

	return b
}

// Columns restricts the selected columns; default is *.
func (b *Builder) Columns(cols ...string) *Builder {
	if len(cols) > 0 {
		b.cols = cols
	}
	return b
}

func (b *Builder) Where(a ...qb.Expr) *Builder {
	b.exprs = append(b.exprs, a...)
	return b
}

func (b *Builder) OrderBy(col string, sortBy ...qb.SortBy) *Builder {
	if col == "" {
		b.order = ""
		return b
	}

	var raw = qb.Quote(b.schema.table, col)
	if len(sortBy) > 0 {
		if sortBy[0] == qb.Ascend {
			raw += " ASC"
		} else {
			raw += " DESC"
		}
	}

	b.order = raw
	return b
}

func (b *Builder) OrderByRaw(raw string) *Builder {
	b.order = raw
	return b
}

func (b *Builder) Offset(a int) *Builder {
	b.offset = a
	return b
}

func (b *Builder) Limit(a int) *Builder {
	b.limit = a
	return b
}

// orderedValues validates the value names against the schema and lays
// them out in declaration order.
func (b *Builder) orderedValues(values qb.H) ([]string, []any, error) {
	for name := range values {
		if _, ok := b.schema.byName[name]; !ok {
			return nil, nil, &FieldError{Field: name, Msg: "not declared on " + b.schema.table}
		}
	}

	var (
		cols []string
		args []any
	)
	for _, f := range b.schema.fields {
		if v, ok := values[f.Name]; ok {
			cols = append(cols, f.Name)
			args = append(args, v)
		}
	}
	return cols, args, nil
}
