// Package qb builds WHERE predicates for the mro mapper: typed
// comparison expressions, AND/OR grouping, and named-placeholder
// binding for raw SQL fragments.
package qb

import (
	"fmt"
	"strings"
)

// H is a bag of column or placeholder values.
type H map[string]any

type SortBy int

const (
	Ascend SortBy = iota
	Descend
)

type Expr interface {
	Sub() bool
	Build(table string) (string, []any, error)
}

type WhereExpr struct {
	col     string
	args    []any
	op, raw string

	executor func(table string) (string, []any, error)
}

func (w WhereExpr) String() string {
	return w.raw
}

func (w WhereExpr) Sub() bool {
	return false
}

func (w WhereExpr) Build(table string) (cond string, args []any, err error) {
	if w.col != "" {
		col := Quote(table, w.col)
		if w.raw == "" {
			return col + " " + w.op + " ?", w.args, nil
		}
		return col + w.raw, w.args, nil
	}

	if w.executor != nil {
		return w.executor(table)
	}

	if w.raw == "" {
		return "", nil, fmt.Errorf("qb: not a valid expr")
	}
	return w.raw, w.args, nil
}

type subExpr struct {
	typ   string
	exprs []Expr
}

func (subExpr) Sub() bool {
	return true
}

func (e subExpr) Build(table string) (string, []any, error) {
	return Build(table, e.typ, true, e.exprs...)
}

// Quote backtick-quotes an identifier; with two parts it renders
// `table`.`col`.
func Quote(a, b string) string {
	if b == "" {
		return fmt.Sprintf("`%s`", strings.Trim(a, "`"))
	}

	if strings.Contains(b, ".") {
		return "`" + strings.Trim(b, "`") + "`"
	}

	return fmt.Sprintf("`%s`.`%s`", strings.Trim(a, "`"), strings.Trim(b, "`"))
}

// Build joins the expressions with typ ("AND"/"OR"), bracketing
// sub-groups when mixed with plain expressions.
func Build(table, typ string, sub bool, a ...Expr) (string, []any, error) {
	var (
		sb      strings.Builder
		args    []any
		typStr      = " " + typ + " "
		opened  int = -1
		bracket bool
	)

	if sub {
		for _, e := range a {
			if e.Sub() {
				bracket = true
				break
			}
		}
	}

	for i, e := range a {
		if e.Sub() {
			if bracket && opened > -1 {
				sb.WriteString(")")
				opened = -1
			}

			if i > 0 {
				sb.WriteString(typStr)
			}
		} else {
			if opened == -1 {
				if i > 0 {
					sb.WriteString(typStr)
				}

				if bracket {
					sb.WriteString("(")
				}
			} else if opened > -1 {
				sb.WriteString(typStr)
			}

			if bracket {
				opened++
			}
		}

		out, whereArgs, err := e.Build(table)
		if err != nil {
			return "", nil, err
		}

		args = append(args, whereArgs...)
		sb.WriteString(out)
	}

	if opened > 0 {
		sb.WriteString(")")
	}

	sq := sb.String()

	if sub && len(a) > 1 {
		sq = "(" + sq + ")"
	}

	return sq, args, nil
}
