package mro

import (
	"fmt"
	"strings"
)

// Schema is the ordered field list for one table, built once per table
// type and consulted by every operation.
type Schema struct {
	table  string
	fields []Field
	byName map[string]int

	pk, sk string
}

// NewSchema validates the field declarations: exactly one primary key,
// at most one secondary key, no duplicate names.
func NewSchema(table string, fields ...Field) (*Schema, error) {
	if table == "" {
		return nil, &FieldError{Msg: "schema needs a table name"}
	}

	s := &Schema{table: table, fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			return nil, &FieldError{Msg: fmt.Sprintf("%s: field %d has no name", table, i)}
		}
		if _, ok := s.byName[f.Name]; ok {
			return nil, &FieldError{Field: f.Name, Msg: "declared twice"}
		}
		s.byName[f.Name] = i

		if f.PrimaryKey && f.SecondaryKey {
			return nil, &FieldError{Field: f.Name, Msg: "cannot be both primary and secondary key"}
		}
		if f.PrimaryKey {
			if s.pk != "" {
				return nil, &FieldError{Field: f.Name, Msg: "second primary key (already have " + s.pk + ")"}
			}
			s.pk = f.Name
		}
		if f.SecondaryKey {
			if s.sk != "" {
				return nil, &FieldError{Field: f.Name, Msg: "second secondary key (already have " + s.sk + ")"}
			}
			s.sk = f.Name
		}
	}

	if s.pk == "" {
		return nil, &FieldError{Msg: table + ": no primary key declared"}
	}

	return s, nil
}

// MustSchema is NewSchema for package-level declarations; it panics on
// an invalid declaration.
func MustSchema(table string, fields ...Field) *Schema {
	s, err := NewSchema(table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Table() string { return s.table }

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s *Schema) PrimaryKey() string   { return s.pk }
func (s *Schema) SecondaryKey() string { return s.sk }

// CreateSQL returns the CREATE TABLE statement followed by one CREATE
// INDEX statement per indexed field.
func (s *Schema) CreateSQL() []string {
	var sb strings.Builder

	sb.WriteString("CREATE TABLE `")
	sb.WriteString(s.table)
	sb.WriteString("` (\n")
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("    ")
		sb.WriteString(f.columnSQL())
	}
	sb.WriteString("\n)")

	stmts := []string{sb.String()}
	for _, f := range s.fields {
		if f.Indexed {
			stmts = append(stmts, s.indexSQL(f))
		}
	}
	return stmts
}

func (s *Schema) indexSQL(f Field) string {
	expr := "`" + f.Name + "`"
	if f.IndexExpr != "" {
		expr = f.IndexExpr
	}
	return fmt.Sprintf("CREATE INDEX `%s_%s_idx` ON `%s` (%s)", s.table, f.Name, s.table, expr)
}

// Create issues the CREATE TABLE and index statements. Errors from the
// executor (table exists, connection down) pass through untranslated.
func (s *Schema) Create(db Executor) error {
	for _, stmt := range s.CreateSQL() {
		logSQL(stmt, nil)
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddColumnSQL returns the ALTER TABLE statement for one declared
// field, plus its index statement if the field is indexed. Used after
// the table already exists.
func (s *Schema) AddColumnSQL(name string) ([]string, error) {
	f, ok := s.Field(name)
	if !ok {
		return nil, &FieldError{Field: name, Msg: "not declared on " + s.table}
	}

	stmts := []string{fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN %s", s.table, f.columnSQL())}
	if f.Indexed {
		stmts = append(stmts, s.indexSQL(f))
	}
	return stmts, nil
}

// AddColumn executes AddColumnSQL.
func (s *Schema) AddColumn(db Executor, name string) error {
	stmts, err := s.AddColumnSQL(name)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		logSQL(stmt, nil)
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
