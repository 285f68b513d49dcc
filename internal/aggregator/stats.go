package aggregator

import (
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

// FileStats summarizes one fully parsed file.
type FileStats struct {
	Filename       string         `json:"filename" yaml:"filename"`
	TotalLines     int            `json:"totalLines" yaml:"total_lines"`
	Records        int            `json:"records" yaml:"records"`
	BlankLines     int            `json:"blankLines" yaml:"blank_lines"`
	DetectedFormat string         `json:"detectedFormat" yaml:"detected_format"`
	FormatCounts   map[string]int `json:"formatCounts,omitempty" yaml:"format_counts,omitempty"`
	LevelCounts    map[string]int `json:"levelCounts,omitempty" yaml:"level_counts,omitempty"`
	WithTimestamp  int            `json:"withTimestamp" yaml:"with_timestamp"`
	WithMetadata   int            `json:"withMetadata" yaml:"with_metadata"`
	Earliest       time.Time      `json:"earliest,omitzero" yaml:"earliest,omitempty"`
	Latest         time.Time      `json:"latest,omitzero" yaml:"latest,omitempty"`
}

// Summarize computes display statistics over a parse result. It reads the
// records without modifying them.
func Summarize(res model.ParseResult) FileStats {
	stats := FileStats{
		Filename:       res.Filename,
		TotalLines:     res.TotalLines,
		Records:        len(res.Records),
		BlankLines:     res.BlankLines(),
		DetectedFormat: res.DetectedFormat,
		FormatCounts:   make(map[string]int, len(res.FormatCounts)),
		LevelCounts:    make(map[string]int),
	}
	for k, v := range res.FormatCounts {
		stats.FormatCounts[k] = v
	}

	for _, rec := range res.Records {
		stats.LevelCounts[levelKey(rec.Level)]++
		if rec.Metadata != nil {
			stats.WithMetadata++
		}
		if rec.Timestamp.IsZero() {
			continue
		}
		stats.WithTimestamp++
		if stats.Earliest.IsZero() || rec.Timestamp.Before(stats.Earliest) {
			stats.Earliest = rec.Timestamp
		}
		if stats.Latest.IsZero() || rec.Timestamp.After(stats.Latest) {
			stats.Latest = rec.Timestamp
		}
	}

	return stats
}
