package catalog

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = time.DateOnly

// dateInputLayouts are accepted when parsing user input, tried in order.
var dateInputLayouts = []string{
	DateLayout,
	"01/02/2006",
	"01/02/06",
}

var ErrInvalidDate = errors.New("invalid date")

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock part of t, keeping t's calendar day.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a calendar date in any accepted input layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseOptionalDate parses s, mapping the empty string to nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
