package model

import "time"

// Level classifies the severity of a record. The canonical vocabulary is the
// six constants below, but the type is deliberately an open string: the
// Apache access matcher stores the raw HTTP status code here, so values like
// "404" are legal.
type Level string

const (
	LevelTrace Level = "TRACE"
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelFatal Level = "FATAL"
)

// Record is the normalized form of a single non-blank log line.
type Record struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp,omitzero"` // zero means the line carried no usable timestamp
	Level      Level          `json:"level,omitempty"`
	Message    string         `json:"message"` // display text, synthesized if needed, never empty
	RawLine    string         `json:"rawLine"` // original line text, unmodified
	LineNumber int            `json:"lineNumber"`
	Source     string         `json:"source,omitempty"` // host, logger or originating file
	Thread     string         `json:"thread,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"` // full decoded JSON object, when one was found
}

// ParseResult is the outcome of parsing one file.
type ParseResult struct {
	Records []Record `json:"records"`

	// TotalLines counts every line of the input, blank ones included.
	TotalLines int    `json:"totalLines"`
	Filename   string `json:"filename"`

	// DetectedFormat names the classification that handled the most recently
	// classified line. Mixed-format files therefore report whatever matched
	// last; FormatCounts has the full distribution.
	DetectedFormat string         `json:"detectedFormat"`
	FormatCounts   map[string]int `json:"formatCounts,omitempty"`
}

// BlankLines reports how many input lines produced no record.
func (r ParseResult) BlankLines() int {
	return r.TotalLines - len(r.Records)
}

// RawLine is one unparsed line lifted from a tailed file, before it enters
// the parsing pipeline.
type RawLine struct {
	Text   string
	Source string
	Number int // 1-based, counted from where tailing of the source began
}
