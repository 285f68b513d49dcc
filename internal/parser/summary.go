package parser

import "strings"

// Candidate key lists for the five summary concerns, in pick order.
var (
	moduleKeys  = []string{"module", "service", "source", "logger"}
	featureKeys = []string{"feature", "action", "event", "endpoint"}
	typeKeys    = []string{"type", "category"}
	statusKeys  = []string{"status", "statusCode", "code"}
	messageKeys = []string{"message", "msg", "text"}
)

// fallbackMessage is the display text of last resort for records whose line
// yielded nothing the summary recognizes.
const fallbackMessage = "Log entry"

// Summarize builds a display message from a JSON object's conventional keys:
// a head of module/feature/type/status picks joined by " • ", combined with
// the message text. Deterministic, no side effects.
func Summarize(obj map[string]any) string {
	head, msg := summaryParts(obj)
	return combineSummary(head, msg)
}

// summaryParts returns the head and the message text separately so the
// embedded-object path can substitute its own message fallbacks.
func summaryParts(obj map[string]any) (head, msg string) {
	msg, _ = firstScalar(obj, messageKeys)

	var parts []string
	if v, ok := firstScalar(obj, moduleKeys); ok {
		parts = append(parts, v)
	}
	if v, ok := firstScalar(obj, featureKeys); ok {
		parts = append(parts, v)
	}
	// A type that merely repeats the message is suppressed.
	if v, ok := firstScalar(obj, typeKeys); ok && !strings.EqualFold(v, msg) {
		parts = append(parts, v)
	}
	if v, ok := firstScalar(obj, statusKeys); ok {
		parts = append(parts, v)
	}
	return strings.Join(parts, " • "), msg
}

func combineSummary(head, msg string) string {
	switch {
	case head != "" && msg != "":
		return head + " — " + msg
	case head != "":
		return head
	case msg != "":
		return msg
	}
	return fallbackMessage
}
