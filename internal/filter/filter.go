// Package filter derives views over parsed records without touching the
// originals.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

// Criteria selects a subset of records. The zero value matches everything;
// each set field narrows the selection further.
type Criteria struct {
	// Levels matches exactly, any-of. Raw Apache status values like "404"
	// are legal here too.
	Levels []model.Level

	// Query is a case-insensitive substring match over the message.
	Query string

	// From and To bound the timestamp, inclusive on both ends. A record
	// without a timestamp never satisfies a bounded range.
	From time.Time
	To   time.Time

	// Metadata requires equality on every listed key, values compared in
	// their display rendering.
	Metadata map[string]string
}

// Apply returns the records satisfying every set criterion, preserving file
// order. Records are shared with the input slice, never copied or modified.
func Apply(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if c.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Match reports whether a single record satisfies the criteria.
func (c Criteria) Match(rec model.Record) bool {
	if len(c.Levels) > 0 && !containsLevel(c.Levels, rec.Level) {
		return false
	}
	if c.Query != "" && !strings.Contains(strings.ToLower(rec.Message), strings.ToLower(c.Query)) {
		return false
	}
	if !c.From.IsZero() {
		if rec.Timestamp.IsZero() || rec.Timestamp.Before(c.From) {
			return false
		}
	}
	if !c.To.IsZero() {
		if rec.Timestamp.IsZero() || rec.Timestamp.After(c.To) {
			return false
		}
	}
	for key, want := range c.Metadata {
		v, ok := rec.Metadata[key]
		if !ok || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

func containsLevel(levels []model.Level, l model.Level) bool {
	for _, lv := range levels {
		if lv == l {
			return true
		}
	}
	return false
}

// timeLayouts are the accepted spellings for range bounds, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime reads a user-supplied range bound. Accepted forms are RFC 3339,
// a space-separated date and time, or a bare date.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
