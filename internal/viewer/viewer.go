// Package viewer is the interactive terminal browser for a parsed file:
// scrolling, substring search and level filtering over the record list.
package viewer

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikedotJS/loggy/internal/filter"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/output"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// levelCycle is the order the level filter steps through; the empty
// entry means no filtering.
var levelCycle = []model.Level{
	"",
	model.LevelTrace,
	model.LevelDebug,
	model.LevelInfo,
	model.LevelWarn,
	model.LevelError,
	model.LevelFatal,
}

// Model is the bubbletea state for the viewer.
type Model struct {
	result   model.ParseResult
	rendered []string // one pre-rendered row per record
	visible  []int    // indices into result.Records after filtering

	offset    int
	width     int
	height    int
	ready     bool
	searching bool
	query     string
	levelIdx  int
}

// NewModel prepares the viewer over a parse result.
func NewModel(result model.ParseResult) Model {
	tr := output.NewTextRenderer(io.Discard)
	rendered := make([]string, len(result.Records))
	for i, rec := range result.Records {
		rendered[i] = tr.Line(rec)
	}

	m := Model{result: result, rendered: rendered}
	m.applyFilter()
	return m
}

// Run opens the viewer fullscreen and blocks until the user quits.
func Run(result model.ParseResult) error {
	p := tea.NewProgram(NewModel(result), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
		m.applyFilter()
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		m.offset++
	case "k", "up":
		m.offset--
	case "ctrl+d":
		m.offset += m.viewHeight() / 2
	case "ctrl+u":
		m.offset -= m.viewHeight() / 2
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
	case "/":
		m.searching = true
		m.query = ""
		m.applyFilter()
	case "l":
		m.levelIdx = (m.levelIdx + 1) % len(levelCycle)
		m.applyFilter()
	case "c":
		m.levelIdx = 0
		m.query = ""
		m.applyFilter()
	}
	m.clampOffset()
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.titleBar())
	b.WriteByte('\n')

	height := m.viewHeight()
	end := min(m.offset+height, len(m.visible))
	rows := 0
	for _, idx := range m.visible[m.offset:end] {
		b.WriteString(m.rendered[idx])
		b.WriteByte('\n')
		rows++
	}
	for ; rows < height; rows++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.statusBar())
	return b.String()
}

// --- Filtering ---

func (m *Model) applyFilter() {
	criteria := filter.Criteria{Query: m.query}
	if level := levelCycle[m.levelIdx]; level != "" {
		criteria.Levels = []model.Level{level}
	}

	m.visible = m.visible[:0]
	for i, rec := range m.result.Records {
		if criteria.Match(rec) {
			m.visible = append(m.visible, i)
		}
	}
	m.clampOffset()
}

// --- Geometry ---

// viewHeight is the record area: everything minus title and status bars.
func (m Model) viewHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) maxOffset() int {
	n := len(m.visible) - m.viewHeight()
	if n < 0 {
		return 0
	}
	return n
}

func (m *Model) clampOffset() {
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// --- Chrome ---

func (m Model) titleBar() string {
	name := m.result.Filename
	if name == "" {
		name = "stdin"
	}
	return titleStyle.Render(fmt.Sprintf("loggy %s", name))
}

func (m Model) statusBar() string {
	if m.searching {
		return searchStyle.Render(fmt.Sprintf("search: %s█  (enter to apply, esc to cancel)", m.query))
	}

	parts := []string{
		fmt.Sprintf("%d/%d records", len(m.visible), len(m.result.Records)),
		m.result.DetectedFormat,
	}
	if level := levelCycle[m.levelIdx]; level != "" {
		parts = append(parts, fmt.Sprintf("level:%s", level))
	}
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.query))
	}
	parts = append(parts, m.positionIndicator())
	parts = append(parts, "j/k scroll  / search  l level  c clear  q quit")

	return statusStyle.Render(strings.Join(parts, "  "))
}

func (m Model) positionIndicator() string {
	if len(m.visible) <= m.viewHeight() {
		return "all"
	}
	switch {
	case m.offset == 0:
		return "top"
	case m.offset >= m.maxOffset():
		return "bottom"
	}
	return fmt.Sprintf("%d%%", m.offset*100/m.maxOffset())
}
