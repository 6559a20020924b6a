package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	floatingLayout = "2006-01-02T15:04:05" // no zone, "floating" due datetime
)

// Date is a Todoist due date. Todoist sends either a plain calendar date or a
// datetime (floating or UTC); HasTime records which one was seen.
type Date struct {
	time.Time
	HasTime  bool
	floating bool
}

// ParseDate accepts the three date forms Todoist emits.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(floatingLayout, s); err == nil {
		return Date{Time: t, HasTime: true, floating: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{Time: t, HasTime: true}, nil
	}
	return Date{}, fmt.Errorf("failed to parse Todoist date string '%s'", s)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.format() + `"`), nil
}

func (d Date) format() string {
	if !d.HasTime {
		return d.Format(DateLayout)
	}
	if d.floating {
		return d.Format(floatingLayout)
	}
	return d.Format(time.RFC3339)
}

// String prints the date, with the time of day when one is set.
func (d Date) String() string {
	if d.HasTime {
		return d.Format("2006-01-02 15:04:05")
	}
	return d.Format(DateLayout)
}
