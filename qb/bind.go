package qb

import (
	"fmt"
	"strings"
)

// Bind is a raw predicate using $name placeholders, bound from vars:
//
//	Bind("username LIKE $u", H{"u": "ab%"})
//
// Every $name is rewritten to a driver ? placeholder and its value
// appended positionally, so values never end up spliced into the SQL
// text. A $name with no entry in vars is an error, as is a vars entry
// the predicate never uses. A literal dollar sign not followed by an
// identifier passes through unchanged.
func Bind(raw string, vars H) Expr {
	return WhereExpr{executor: func(string) (string, []any, error) {
		var (
			sb   strings.Builder
			args []any
			used = make(map[string]bool, len(vars))
		)

		for i := 0; i < len(raw); {
			if raw[i] != '$' {
				sb.WriteByte(raw[i])
				i++
				continue
			}

			j := i + 1
			for j < len(raw) && isIdent(raw[j]) {
				j++
			}
			name := raw[i+1 : j]
			if name == "" {
				sb.WriteByte('$')
				i++
				continue
			}

			val, ok := vars[name]
			if !ok {
				return "", nil, fmt.Errorf("qb: no value bound for $%s", name)
			}
			used[name] = true

			sb.WriteByte('?')
			args = append(args, val)
			i = j
		}

		for name := range vars {
			if !used[name] {
				return "", nil, fmt.Errorf("qb: bound value $%s is never used", name)
			}
		}

		return sb.String(), args, nil
	}}
}

func isIdent(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
