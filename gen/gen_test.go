package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const userSrc = `package model

import "time"

type User struct {
	ID       int64     ` + "`mro:\"id;pk\"`" + `
	Username string    ` + "`mro:\"username;sk\"`" + `
	Hash     string    ` + "`mro:\"hash\"`" + `
	Bio      *string   ` + "`mro:\"bio\"`" + `
	Created  time.Time ` + "`mro:\"created;notnull;default=CURRENT_TIMESTAMP\"`" + `
	Ignored  string
}

func (User) TableName() string { return "users" }
`

func generate(t *testing.T, src string) string {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "model.go")
	out := filepath.Join(dir, "model_mro.go")
	if err := os.WriteFile(in, []byte(src), 0666); err != nil {
		t.Fatal(err)
	}

	if err := Gen(in, out); err != nil {
		t.Fatalf("Gen: %v", err)
	}

	code, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	return string(code)
}

func TestGen(t *testing.T) {
	code := generate(t, userSrc)

	for _, want := range []string{
		`var UserSchema = mro.MustSchema("users",`,
		`mro.Serial("id", mro.PrimaryKey()),`,
		`mro.String("username", mro.SecondaryKey()),`,
		`mro.String("hash"),`,
		`mro.String("bio"),`,
		`mro.Timestamp("created", mro.NotNull(), mro.Default("CURRENT_TIMESTAMP")),`,
		`var UserColumns = []string{"id", "username", "hash", "bio", "created"}`,
		`func FindUser(db mro.Executor, key any) (*User, error)`,
		`func GetUser(db mro.Executor, key any) (*User, error)`,
		`func SelectUser(db mro.Executor, where string, vars qb.H) ([]*User, error)`,
		`func (m *User) Save(db mro.Executor) error`,
		`func (m *User) Delete(db mro.Executor) error`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code is missing %q", want)
		}
	}

	if strings.Contains(code, "Ignored") {
		t.Error("untagged fields must not be generated")
	}

	// The output must at least parse.
	if _, err := parser.ParseFile(token.NewFileSet(), "model_mro.go", code, 0); err != nil {
		t.Errorf("generated code does not parse: %v", err)
	}
}

func TestGenPointerField(t *testing.T) {
	code := generate(t, userSrc)

	if !strings.Contains(code, "if m.Bio != nil {") {
		t.Error("pointer field should only travel when non-nil")
	}
	if !strings.Contains(code, `m.Bio = mro.Ptr(rec.GetString("bio"))`) {
		t.Error("pointer field should be rebuilt with mro.Ptr")
	}
}

func TestGenNoModels(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.go")
	if err := os.WriteFile(in, []byte("package model\n\ntype Plain struct{ A int }\n"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := Gen(in, ""); err == nil {
		t.Error("expected error for a file without models")
	}
}

func TestGenTwoPrimaryKeys(t *testing.T) {
	src := `package model

type Bad struct {
	A int64 ` + "`mro:\"a;pk\"`" + `
	B int64 ` + "`mro:\"b;pk\"`" + `
}

func (Bad) TableName() string { return "bads" }
`
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.go")
	if err := os.WriteFile(in, []byte(src), 0666); err != nil {
		t.Fatal(err)
	}
	if err := Gen(in, ""); err == nil {
		t.Error("expected error for two primary keys")
	}
}
