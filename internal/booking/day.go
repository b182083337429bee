// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Accepted day layouts. The first is the canonical one.
const (
	LayoutDateString = "Mon Jan 02 2006"
	LayoutISO        = "2006-01-02"
)

// Day is a calendar day with no time-of-day and no time zone.
//
// Two days are equal iff their canonical strings are equal, so Day is safe to
// use as a map key.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay constructs a Day. Out-of-range values are normalized the way
// [time.Date] does.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// ParseDay accepts "Fri Jul 25 2025" or "2025-07-25".
//
// time.Parse ignores the weekday's value, so the date-string form must
// round-trip exactly: "Mon Jul 25 2025" is rejected.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(LayoutDateString, s); err == nil {
		day := DayOf(t)
		if day.String() != s {
			return Day{}, fmt.Errorf("booking: weekday does not match day %q", s)
		}
		return day, nil
	}
	if t, err := time.Parse(LayoutISO, s); err == nil {
		return DayOf(t), nil
	}
	return Day{}, fmt.Errorf("booking: invalid day %q", s)
}

// IsZero reports whether no day was chosen.
func (d Day) IsZero() bool {
	return d == Day{}
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// String returns the canonical form, e.g. "Fri Jul 25 2025".
func (d Day) String() string {
	return d.Time().Format(LayoutDateString)
}

// ISO returns the day as "2025-07-25".
func (d Day) ISO() string {
	return d.Time().Format(LayoutISO)
}

// MarshalJSON implements json.Marshaler.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
