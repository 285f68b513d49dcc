// Package export turns filtered records back into downloadable log text.
package export

import (
	"path/filepath"
	"strings"

	"github.com/mikedotJS/loggy/internal/model"
)

// marker is inserted before the extension of derived filenames.
const marker = ".filtered"

// Content serializes records back to raw text, one line per record in the
// given order. Raw lines are emitted verbatim, so a round trip through the
// parser reproduces the same records.
func Content(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(rec.RawLine)
	}
	return b.String()
}

// Filename derives the download name for a filtered subset of the named
// file: "app.log" becomes "app.filtered.log". Files without an extension
// get the marker as a suffix.
func Filename(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) {
		base = "export.log"
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return base + marker
	}
	return strings.TrimSuffix(base, ext) + marker + ext
}
