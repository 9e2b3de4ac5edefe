// Package gen generates mro schema declarations and typed accessors
// from struct definitions.
//
// A struct becomes a model when it has a TableName() string method and
// at least one field tagged `mro:"column[;opt...]"`. Recognized options
// are pk, sk, notnull, index, default=EXPR and type=SQLTYPE. For each
// model the generator emits a MustSchema declaration, a column list,
// Find/Get/Select functions and Save/Delete methods converting between
// the struct and mro records.
package gen

import (
	"bytes"
	"embed"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"reflect"
	"strings"
	"text/template"

	"github.com/samber/lo"
)

//go:embed template/*
var tplDir embed.FS

type field struct {
	Name, Column, Type string

	Decl       string // schema field declaration, e.g. mro.Serial("id", mro.PrimaryKey())
	ToValue    string // snippet copying the struct field into a value bag
	FromRecord string // snippet copying a record value into the struct field
}

type modelPK struct {
	Name, Column, Type string
}

type model struct {
	Name, Table string
	Valid       bool

	PK     *modelPK
	Fields []field
}

// ColumnList renders the quoted column names for the generated column
// slice.
func (m *model) ColumnList() string {
	cols := lo.Map(m.Fields, func(f field, _ int) string { return `"` + f.Column + `"` })
	return strings.Join(cols, ", ")
}

var fset = token.NewFileSet()

// Gen parses the Go source file at src and writes the generated code
// next to it (or to out when given).
func Gen(src, out string) error {
	t, err := template.New("gen").Funcs(template.FuncMap{
		"lowerFirst": lowerFirst,
	}).ParseFS(tplDir, "template/*.tmpl")
	if err != nil {
		return err
	}

	f, err := parser.ParseFile(fset, src, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	models, err := parseFile(f)
	if err != nil {
		return err
	}

	models = lo.Filter(models, func(m *model, _ int) bool { return m.Valid })
	if len(models) == 0 {
		return fmt.Errorf("no mro models in %s (structs need a TableName method and mro tags)", src)
	}

	var buf bytes.Buffer
	if err = t.ExecuteTemplate(&buf, "model.tmpl", map[string]any{
		"Package": f.Name.Name,
		"Models":  models,
	}); err != nil {
		return err
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		fmt.Println(buf.String())
		return err
	}

	if out == "" {
		out = strings.TrimSuffix(src, ".go") + "_mro.go"
	}
	return os.WriteFile(out, code, 0666)
}

func parseFile(f *ast.File) ([]*model, error) {
	var models []*model

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					if st, ok := ts.Type.(*ast.StructType); ok {
						m, err := parseModel(ts.Name.Name, st)
						if err != nil {
							return nil, err
						}
						if m != nil {
							models = append(models, m)
						}
					}
				}
			}

		case *ast.FuncDecl:
			if d.Name.Name == "TableName" && firstFieldName(d.Type.Results) == "string" {
				name := firstFieldName(d.Recv)
				for _, m := range models {
					if m.Name == name {
						m.Valid = true
						if table := returnedString(d.Body); table != "" {
							m.Table = table
						}
					}
				}
			}
		}
	}

	return models, nil
}

func parseModel(name string, st *ast.StructType) (*model, error) {
	m := &model{Name: name, Table: strings.ToLower(name) + "s"}

	for _, sf := range st.Fields.List {
		if len(sf.Names) < 1 || sf.Tag == nil {
			continue
		}

		tag := reflect.StructTag(strings.Trim(sf.Tag.Value, "`")).Get("mro")
		if tag == "" || tag == "-" {
			continue
		}

		f, pk, err := parseField(m, sf.Names[0].Name, typeName(sf.Type), tag)
		if err != nil {
			return nil, err
		}
		if pk {
			if m.PK != nil {
				return nil, fmt.Errorf("[%s] two primary keys: %s and %s", m.Name, m.PK.Name, f.Name)
			}
			m.PK = &modelPK{Name: f.Name, Column: f.Column, Type: f.Type}
		}

		m.Fields = append(m.Fields, f)
	}

	if len(m.Fields) == 0 {
		return nil, nil
	}
	if m.PK == nil {
		return nil, fmt.Errorf("[%s] no field tagged pk", m.Name)
	}
	return m, nil
}

func parseField(m *model, name, typ, tag string) (field, bool, error) {
	f := field{Name: name, Column: strings.ToLower(name), Type: typ}

	var (
		pk, sk, notNull, index bool
		def, sqlType           string
	)
	for i, part := range strings.Split(tag, ";") {
		k, v, hasVal := strings.Cut(part, "=")
		switch {
		case k == "pk" && !hasVal:
			pk = true
		case k == "sk" && !hasVal:
			sk = true
		case k == "notnull" && !hasVal:
			notNull = true
		case k == "index" && !hasVal:
			index = true
		case k == "default" && hasVal:
			def = v
		case k == "type" && hasVal:
			sqlType = v
		case i == 0 && !hasVal:
			if k != "" {
				f.Column = k
			}
		default:
			return f, false, fmt.Errorf("[%s.%s] bad mro tag option: %s", m.Name, name, part)
		}
	}

	base := strings.TrimPrefix(typ, "*")
	ptr := strings.HasPrefix(typ, "*")

	ctor := ""
	switch {
	case sqlType != "":
		ctor = fmt.Sprintf("mro.Column(%q, %q", f.Column, sqlType)
	case isIntType(base):
		if pk {
			ctor = fmt.Sprintf("mro.Serial(%q", f.Column)
		} else {
			ctor = fmt.Sprintf("mro.Integer(%q", f.Column)
		}
	case base == "string":
		ctor = fmt.Sprintf("mro.String(%q", f.Column)
	case base == "time.Time":
		ctor = fmt.Sprintf("mro.Timestamp(%q", f.Column)
	default:
		return f, false, fmt.Errorf("[%s.%s] no SQL type for %s; add a type= option", m.Name, name, typ)
	}

	var opts []string
	if pk {
		opts = append(opts, "mro.PrimaryKey()")
	}
	if sk {
		opts = append(opts, "mro.SecondaryKey()")
	}
	if notNull {
		opts = append(opts, "mro.NotNull()")
	}
	if index && !sk {
		opts = append(opts, "mro.Indexed()")
	}
	if def != "" {
		opts = append(opts, fmt.Sprintf("mro.Default(%q)", def))
	}
	f.Decl = ctor
	if len(opts) > 0 {
		f.Decl += ", " + strings.Join(opts, ", ")
	}
	f.Decl += ")"

	if err := fillSnippets(&f, base, ptr, pk); err != nil {
		return f, false, fmt.Errorf("[%s.%s] %v", m.Name, name, err)
	}
	return f, pk, nil
}

// fillSnippets builds the struct<->record copy code. Zero values on
// non-pointer fields still travel to the database; only the primary
// key, pointer fields and zero times are treated as unset.
func fillSnippets(f *field, base string, ptr, pk bool) error {
	get := ""
	switch {
	case isIntType(base):
		get = fmt.Sprintf(`%s(rec.GetInt(%q))`, base, f.Column)
	case base == "string":
		get = fmt.Sprintf(`rec.GetString(%q)`, f.Column)
	case base == "time.Time":
		get = fmt.Sprintf(`rec.GetTime(%q)`, f.Column)
	default:
		return fmt.Errorf("cannot map %s", base)
	}

	switch {
	case ptr && pk:
		return fmt.Errorf("primary key cannot be a pointer")
	case ptr:
		f.ToValue = fmt.Sprintf(`if m.%s != nil {
		values[%q] = mro.Unwrap(m.%s)
	}`, f.Name, f.Column, f.Name)
		f.FromRecord = fmt.Sprintf(`if v, ok := rec.Get(%q); ok && v != nil {
		m.%s = mro.Ptr(%s)
	}`, f.Column, f.Name, get)
	case pk:
		f.ToValue = fmt.Sprintf(`if m.%s != 0 {
		values[%q] = m.%s
	}`, f.Name, f.Column, f.Name)
		f.FromRecord = fmt.Sprintf(`m.%s = %s`, f.Name, get)
	case base == "time.Time":
		f.ToValue = fmt.Sprintf(`if !m.%s.IsZero() {
		values[%q] = m.%s
	}`, f.Name, f.Column, f.Name)
		f.FromRecord = fmt.Sprintf(`m.%s = %s`, f.Name, get)
	default:
		f.ToValue = fmt.Sprintf(`values[%q] = m.%s`, f.Column, f.Name)
		f.FromRecord = fmt.Sprintf(`m.%s = %s`, f.Name, get)
	}
	return nil
}

func isIntType(typ string) bool {
	switch typ {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return true
	}
	return false
}

func firstFieldName(l *ast.FieldList) string {
	if l.NumFields() > 0 {
		switch t := l.List[0].Type.(type) {
		case *ast.Ident:
			return t.Name
		case *ast.StarExpr:
			if id, ok := t.X.(*ast.Ident); ok {
				return id.Name
			}
		}
	}
	return ""
}

// returnedString digs the table name out of a `return "users"` body.
func returnedString(body *ast.BlockStmt) string {
	if body == nil || len(body.List) != 1 {
		return ""
	}
	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return ""
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	return strings.Trim(lit.Value, `"`)
}

func typeName(e ast.Expr) string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	printer.Fprint(&sb, fset, e)
	return sb.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
