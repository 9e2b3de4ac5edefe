package qb

import (
	"strings"
	"testing"
)

func TestBind(t *testing.T) {
	cond, args, err := Bind("username LIKE $u AND id > $min", H{"u": "ab%", "min": 3}).Build("users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != "username LIKE ? AND id > ?" {
		t.Errorf("cond = %q", cond)
	}
	if len(args) != 2 || args[0] != "ab%" || args[1] != 3 {
		t.Errorf("args = %v", args)
	}
}

func TestBindRepeatedPlaceholder(t *testing.T) {
	cond, args, err := Bind("a = $x OR b = $x", H{"x": 1}).Build("t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != "a = ? OR b = ?" {
		t.Errorf("cond = %q", cond)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestBindMissingVar(t *testing.T) {
	_, _, err := Bind("username = $u", nil).Build("users")
	if err == nil {
		t.Fatal("expected error for unbound placeholder")
	}
	if !strings.Contains(err.Error(), "$u") {
		t.Errorf("error should name the placeholder: %v", err)
	}
}

func TestBindUnusedVar(t *testing.T) {
	_, _, err := Bind("username = $u", H{"u": "bob", "stray": 1}).Build("users")
	if err == nil {
		t.Fatal("expected error for unused var")
	}
	if !strings.Contains(err.Error(), "$stray") {
		t.Errorf("error should name the var: %v", err)
	}
}

func TestBindLiteralDollar(t *testing.T) {
	cond, args, err := Bind("price > 100 AND note = '$'", nil).Build("t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != "price > 100 AND note = '$'" {
		t.Errorf("cond = %q", cond)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestBindTrailingDollar(t *testing.T) {
	cond, _, err := Bind("note = 'x' -- $", nil).Build("t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(cond, "$") {
		t.Errorf("cond = %q", cond)
	}
}
