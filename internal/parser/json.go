package parser

import (
	"encoding/json"
	"strconv"

	"github.com/mikedotJS/loggy/internal/model"
)

// Candidate key lists for mapping loosely structured JSON logs onto record
// fields. Order matters: the first present, usable key wins.
var (
	timestampKeys = []string{"timestamp", "@timestamp", "time", "ts"}
	sourceKeys    = []string{"source", "logger", "module", "service"}
	threadKeys    = []string{"thread", "process", "correlationId"}
)

// parseJSONLine interprets a whole trimmed line as one JSON object. A line
// that fails strict parsing reports false and falls through to the pattern
// registry; the record is not touched in that case.
func (p *Parser) parseJSONLine(line string, rec *model.Record) bool {
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		return false
	}

	p.applyObject(obj, rec)
	rec.Message = Summarize(obj)
	rec.Metadata = obj
	return true
}

// applyObject fills record fields that are still unset from the object's
// conventional keys. Fields that already hold a value are never overwritten,
// which makes it safe for both the full-line and the embedded path.
func (p *Parser) applyObject(obj map[string]any, rec *model.Record) {
	if rec.Timestamp.IsZero() {
		if tok, ok := firstScalar(obj, timestampKeys); ok {
			rec.Timestamp = p.normalizeTimestamp(tok)
		}
	}
	if rec.Level == "" {
		if s, ok := obj["level"].(string); ok {
			if lvl, valid := ParseLevel(s); valid {
				rec.Level = lvl
			}
		}
	}
	if rec.Source == "" {
		if s, ok := firstString(obj, sourceKeys); ok {
			rec.Source = s
		}
	}
	if rec.Thread == "" {
		if s, ok := firstString(obj, threadKeys); ok {
			rec.Thread = s
		}
	}
}

// firstString returns the first candidate key holding a non-empty string.
func firstString(obj map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// firstScalar returns the first candidate key holding a scalar value,
// rendered as a string. Keys holding nulls, composites or empty strings are
// skipped in favor of later candidates.
func firstScalar(obj map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if s, usable := formatScalar(v); usable {
			return s, true
		}
	}
	return "", false
}

// formatScalar renders a scalar JSON value for display.
func formatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}
