// Package types holds column value types that scan from and store to
// SQL columns.
package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Time is a DATETIME column value with a "2006-01-02 15:04:05" string
// and JSON form.
type Time time.Time

func Now() Time {
	return Time(time.Now())
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) String() string {
	return time.Time(t).Format(time.DateTime)
}

// Scan accepts time.Time (the driver's parseTime form), []byte and
// string column values.
func (t *Time) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = Time(time.Time{})
		return nil
	case time.Time:
		*t = Time(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("types: cannot scan %T into Time", value)
}

func (t *Time) parse(s string) error {
	nt, err := time.Parse(time.DateTime, s)
	if err != nil {
		return err
	}
	*t = Time(nt)
	return nil
}

func (t Time) Value() (driver.Value, error) {
	return time.Time(t), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	return t.parse(strings.Trim(string(b), `"`))
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}
