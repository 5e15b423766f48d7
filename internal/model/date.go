package model

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date with no time of day or zone. It renders as
// YYYY-MM-DD in text, JSON and YAML.
type Date struct {
	civil.Date
}

// NewDate returns the date year-month-day. Out-of-range values are kept as
// given; use ParseDate for user input.
func NewDate(year int, month time.Month, day int) Date {
	return Date{civil.Date{Year: year, Month: month, Day: day}}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return Date{d}, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today returns the current calendar date in UTC, so "today" does not depend
// on the machine's zone.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return d.In(time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Date.Before(o.Date):
		return -1
	case d.Date.After(o.Date):
		return 1
	}
	return 0
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Date.Before(o.Date) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Date.After(o.Date) }

// UnmarshalText implements encoding.TextUnmarshaler with ParseDate's error.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
