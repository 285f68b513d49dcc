package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikedotJS/loggy/internal/model"
)

// Renderer writes records to an output stream.
type Renderer interface {
	Render(rec model.Record) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
	styleLineNo = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TextRenderer prints records with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rec model.Record) error {
	_, err := fmt.Fprintln(r.w, r.Line(rec))
	return err
}

// Line formats one record without the trailing newline, so callers that
// compose their own views (the TUI) can reuse the exact terminal style.
func (r *TextRenderer) Line(rec model.Record) string {
	ts := "        "
	if !rec.Timestamp.IsZero() {
		ts = rec.Timestamp.Format("15:04:05")
	}

	parts := []string{
		styleLineNo.Render(fmt.Sprintf("%5d", rec.LineNumber)),
		ts,
		styleLevelTag(rec.Level),
	}
	if origin := originTag(rec); origin != "" {
		parts = append(parts, styleSource.Render(origin))
	}
	parts = append(parts, rec.Message)

	return strings.Join(parts, " ")
}

// originTag combines source and thread into one display token.
func originTag(rec model.Record) string {
	switch {
	case rec.Source != "" && rec.Thread != "":
		return rec.Source + "/" + rec.Thread
	case rec.Source != "":
		return rec.Source
	case rec.Thread != "":
		return rec.Thread
	}
	return ""
}

func styleLevelTag(level model.Level) string {
	padded := fmt.Sprintf("%-5s", string(level))
	switch level {
	case model.LevelTrace:
		return styleTrace.Render(padded)
	case model.LevelDebug:
		return styleDebug.Render(padded)
	case model.LevelWarn:
		return styleWarn.Render(padded)
	case model.LevelError:
		return styleError.Render(padded)
	case model.LevelFatal:
		return styleFatal.Render(padded)
	default:
		// INFO, raw Apache statuses and absent levels render plain.
		return styleInfo.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rec model.Record) error {
	return r.enc.Encode(rec)
}
