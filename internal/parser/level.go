package parser

import (
	"strings"

	"github.com/mikedotJS/loggy/internal/model"
)

// levelPriority orders the heuristic scan: the most severe token found
// anywhere in the text wins, regardless of position.
var levelPriority = []model.Level{
	model.LevelFatal,
	model.LevelError,
	model.LevelWarn,
	model.LevelInfo,
	model.LevelDebug,
	model.LevelTrace,
}

// ScanLevel infers severity by case-insensitive substring search in priority
// order. It is a deliberate approximation: a word like "information" contains
// INFO and will register as a hit.
func ScanLevel(text string) model.Level {
	upper := strings.ToUpper(text)
	for _, lvl := range levelPriority {
		if strings.Contains(upper, string(lvl)) {
			return lvl
		}
	}
	return ""
}

// ParseLevel canonicalizes an explicit level value, accepting only the six
// known names in any case. Anything else ("warning", "critical", numbers)
// reports false so callers leave the field unset rather than inventing a
// mapping.
func ParseLevel(s string) (model.Level, bool) {
	switch l := model.Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case model.LevelTrace, model.LevelDebug, model.LevelInfo,
		model.LevelWarn, model.LevelError, model.LevelFatal:
		return l, true
	}
	return "", false
}
