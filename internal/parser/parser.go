package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

// Parser turns raw log text into normalized records. Parsing never fails:
// a line that resists every classification degrades to a plain-text record,
// so each non-blank input line yields exactly one record.
type Parser struct {
	matchers []matcher
	now      func() time.Time
}

// New returns a Parser with the built-in format matchers.
func New() *Parser {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Parser whose notion of "now" comes from the given
// function. Timestamps without a year (syslog) or without a date (bare clock
// times) resolve against it.
func NewWithClock(now func() time.Time) *Parser {
	return &Parser{
		matchers: defaultMatchers(),
		now:      now,
	}
}

// Parse splits content into lines and produces one record per non-blank line.
// The detected format is file-global and reflects whichever classification
// most recently succeeded, so a mixed-format file reports the format of its
// last classified line; FormatCounts carries the full distribution.
func (p *Parser) Parse(content, filename string) model.ParseResult {
	lines := strings.Split(content, "\n")

	result := model.ParseResult{
		Records:        make([]model.Record, 0, len(lines)),
		TotalLines:     len(lines),
		Filename:       filename,
		DetectedFormat: FormatUnknown,
		FormatCounts:   make(map[string]int),
	}

	for i, line := range lines {
		rec, format, ok := p.ParseLine(line, i+1)
		if !ok {
			continue
		}
		result.Records = append(result.Records, rec)
		result.DetectedFormat = format
		result.FormatCounts[format]++
	}

	return result
}

// ParseLine classifies a single line. It returns the record, the name of the
// format that classified it, and false for blank lines (which produce no
// record at all).
func (p *Parser) ParseLine(raw string, lineNumber int) (model.Record, string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.Record{}, "", false
	}

	rec := model.Record{
		ID:         fmt.Sprintf("line-%d", lineNumber),
		RawLine:    raw,
		LineNumber: lineNumber,
	}

	var format string
	if strings.HasPrefix(trimmed, "{") && p.parseJSONLine(trimmed, &rec) {
		format = FormatJSON
	} else if name := p.matchShape(trimmed, &rec); name != "" {
		format = name
	} else {
		rec.Message = trimmed
		rec.Level = ScanLevel(trimmed)
		format = FormatPlainText
	}

	// Lines that were not JSON themselves may still carry a JSON payload.
	if rec.Metadata == nil {
		p.enrichEmbedded(&rec)
	}
	if rec.Message == "" {
		rec.Message = fallbackMessage
	}

	return rec, format, true
}

// matchShape runs the line through the matcher registry, first match wins.
// It returns the matched format name, or "" when nothing hit.
func (p *Parser) matchShape(line string, rec *model.Record) string {
	for _, m := range p.matchers {
		caps := m.re.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		m.apply(p, caps, rec)
		if rec.Level == "" {
			rec.Level = ScanLevel(line)
		}
		return m.name
	}
	return ""
}
