package mro

import "fmt"

// KeyError reports a keyed lookup that matched no row.
type KeyError struct {
	Table, Field string
	Key          any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("no %s with %s of %#v", e.Table, e.Field, e.Key)
}

// FieldError reports schema misuse: an undeclared field name, a missing
// key declaration, or an operation on a record with no key value.
type FieldError struct {
	Field, Msg string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}
