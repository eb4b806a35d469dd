package value

import (
	"fmt"
	"strings"
	"time"
)

// DateTime is an instant, always held in UTC.
type DateTime struct {
	time.Time
}

// NewDateTime returns t converted to UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

// Kind implements Value.
func (DateTime) Kind() Kind { return KindDateTime }

func (v DateTime) String() string { return v.Time.Format(time.RFC3339Nano) }

// Layouts accepted by ParseDateTime. Layouts without an offset are read as
// UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999Z07",
	"15:04:05.999999999",
}

// ParseDateTime parses an ISO-8601-like timestamp with an optional offset.
// Time-only text lands on 0000-01-01.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid datetime %q", s)
}

// MustDateTime is like ParseDateTime but panics on error.
func MustDateTime(s string) DateTime {
	dt, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return dt
}
