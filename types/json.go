package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a column value holding a JSON document of type T, stored in a
// TEXT or JSON column. The zero value is null.
type JSON[T any] struct {
	raw   json.RawMessage
	val   *T
	Valid bool
}

func NewJSON[T any](v T) (*JSON[T], error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &JSON[T]{raw: raw, val: &v, Valid: true}, nil
}

// Get returns the decoded document, or T's zero value when null.
func (j JSON[T]) Get() T {
	if j.val == nil {
		var t T
		return t
	}
	return *j.val
}

// Scan implements the sql.Scanner interface.
func (j *JSON[T]) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		j.raw, j.val, j.Valid = nil, nil, false
		return nil
	case []byte:
		return j.UnmarshalJSON(v)
	case string:
		return j.UnmarshalJSON([]byte(v))
	}

	j.raw, j.val, j.Valid = nil, nil, false
	return errors.New("types: unsupported column value for JSON")
}

// Value implements the driver.Valuer interface.
func (j JSON[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	return []byte(j.raw), nil
}

func (j JSON[T]) MarshalJSON() ([]byte, error) {
	if j.raw == nil {
		return []byte("null"), nil
	}
	return j.raw, nil
}

func (j *JSON[T]) UnmarshalJSON(data []byte) error {
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		j.raw, j.val, j.Valid = nil, nil, false
		return err
	}

	raw := make([]byte, len(data))
	copy(raw, data)

	j.raw, j.val, j.Valid = raw, &val, true
	return nil
}
