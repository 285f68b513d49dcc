package parser

import (
	"strconv"
	"time"
)

// Layouts tried for direct ISO and standard timestamps. Fractional seconds
// need no layout of their own: Parse accepts them after any seconds field.
var directLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Apache access-log timestamps, with and without a zone offset.
var apacheLayouts = []string{
	"02/Jan/2006:15:04:05 -0700",
	"02/Jan/2006:15:04:05",
}

// normalizeTimestamp interprets a raw timestamp token, trying each strategy
// in order: direct layouts, the syslog form with the current year injected,
// the Apache access form, and finally a bare clock time placed on the current
// date. The zero time means "no usable timestamp"; it is never an error.
func (p *Parser) normalizeTimestamp(token string) time.Time {
	if token == "" {
		return time.Time{}
	}

	for _, layout := range directLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t
		}
	}

	now := p.now()

	// Syslog tokens omit the year; borrow the current one.
	if t, err := time.Parse("2006 Jan _2 15:04:05", strconv.Itoa(now.Year())+" "+token); err == nil {
		return t
	}

	for _, layout := range apacheLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t
		}
	}

	// Bare clock time: place it on the current date.
	if t, err := time.Parse("15:04:05", token); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}

	return time.Time{}
}
