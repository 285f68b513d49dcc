package parser

import (
	"encoding/json"
	"strings"

	"github.com/mikedotJS/loggy/internal/model"
)

// ExtractObject scans text for the first balanced JSON object substring.
// The scan starts at the first '{' and counts brace depth, tracking string
// literals and backslash escapes so that braces inside quoted values do not
// perturb the count. It returns the decoded object and the span bounds.
// A text with no balanced span, or whose span is not strict JSON, yields
// ok=false; only the first candidate span is ever attempted.
func ExtractObject(text string) (obj map[string]any, start, end int, ok bool) {
	start = strings.IndexByte(text, '{')
	if start < 0 {
		return nil, 0, 0, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// characters inside a string literal never affect depth
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				end = i + 1
				if err := json.Unmarshal([]byte(text[start:end]), &obj); err != nil {
					return nil, 0, 0, false
				}
				return obj, start, end, true
			}
		}
	}

	return nil, 0, 0, false
}

// enrichEmbedded backfills a record from a JSON object found inside its
// message. Only absent fields are filled. The message is rebuilt from the
// object's summary; when the object carries no message text of its own, the
// record's existing text (or the free text around the
// object) stands in for it.
func (p *Parser) enrichEmbedded(rec *model.Record) {
	obj, start, end, ok := ExtractObject(rec.Message)
	if !ok {
		return
	}

	p.applyObject(obj, rec)

	head, msg := summaryParts(obj)
	switch {
	case msg != "":
		// the object supplied its own message text
	case head != "":
		msg = strings.TrimSpace(rec.Message)
	default:
		before := strings.TrimSpace(rec.Message[:start])
		after := strings.TrimSpace(rec.Message[end:])
		msg = strings.TrimSpace(before + " " + after)
	}

	rec.Message = combineSummary(head, msg)
	rec.Metadata = obj
}
