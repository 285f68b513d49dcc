package parser

import (
	"regexp"
	"strings"

	"github.com/mikedotJS/loggy/internal/model"
)

// Detected-format labels reported on the aggregate result.
const (
	FormatUnknown   = "Unknown"
	FormatJSON      = "JSON format"
	FormatISO       = "ISO with level"
	FormatStandard  = "Standard format"
	FormatSyslog    = "Syslog format"
	FormatApache    = "Apache access"
	FormatSimple    = "Simple timestamp"
	FormatPlainText = "Plain text"
)

// matcher pairs a format name with the line shape that recognizes it and the
// mapping from captures to record fields. Registry order is part of the
// contract: evaluation is first-match-wins, so an earlier matcher shadows a
// later one even when both could match.
type matcher struct {
	name  string
	re    *regexp.Regexp
	apply func(p *Parser, caps []string, rec *model.Record)
}

const levelAlt = `TRACE|DEBUG|INFO|WARN|ERROR|FATAL`

var (
	// 2024-01-15T10:30:45.123Z [ERROR] Connection failed
	reISO = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?(?:Z|[+-]\d{2}:\d{2})?)\s*\[?((?i:` + levelAlt + `))\b\]?\s*(.*)$`)

	// 2024-01-15 10:30:45.123 INFO Application started
	reStandard = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)\s+((?i:` + levelAlt + `))\b\s*(.*)$`)

	// Jan 15 10:31:04 server myapp[1234]: message
	reSyslog = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+([^:\s]+):\s*(.*)$`)

	// 192.168.1.1 - frank [10/Oct/2000:13:55:36 -0700] "GET / HTTP/1.0" 200 2326
	reApache = regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3}){3})\s+\S+\s+\S+\s+\[([^\]]+)\]\s+"([^"]*)"\s+(\d{3})\s+\S+`)

	// [10:30:45.123] message
	reSimple = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)\]\s*(.*)$`)
)

// defaultMatchers returns the registry in priority order. Full-line JSON is
// intercepted by the driver before the registry runs and is not an entry
// here.
func defaultMatchers() []matcher {
	return []matcher{
		{
			name: FormatISO,
			re:   reISO,
			apply: func(p *Parser, caps []string, rec *model.Record) {
				rec.Timestamp = p.normalizeTimestamp(caps[1])
				rec.Level = model.Level(strings.ToUpper(caps[2]))
				rec.Message = caps[3]
			},
		},
		{
			name: FormatStandard,
			re:   reStandard,
			apply: func(p *Parser, caps []string, rec *model.Record) {
				rec.Timestamp = p.normalizeTimestamp(caps[1])
				rec.Level = model.Level(strings.ToUpper(caps[2]))
				rec.Message = caps[3]
			},
		},
		{
			name: FormatSyslog,
			re:   reSyslog,
			apply: func(p *Parser, caps []string, rec *model.Record) {
				rec.Timestamp = p.normalizeTimestamp(caps[1])
				rec.Source = caps[2]
				rec.Thread = caps[3]
				rec.Message = caps[4]
			},
		},
		{
			name: FormatApache,
			re:   reApache,
			apply: func(p *Parser, caps []string, rec *model.Record) {
				rec.Source = caps[1]
				rec.Timestamp = p.normalizeTimestamp(caps[2])
				rec.Message = caps[3]
				// The raw HTTP status lands in the level field. Not a true
				// severity, but it is what the access-log shape provides.
				rec.Level = model.Level(caps[4])
			},
		},
		{
			name: FormatSimple,
			re:   reSimple,
			apply: func(p *Parser, caps []string, rec *model.Record) {
				rec.Timestamp = p.normalizeTimestamp(caps[1])
				rec.Message = caps[2]
			},
		},
	}
}
