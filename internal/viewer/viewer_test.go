package viewer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikedotJS/loggy/internal/parser"
)

const sampleLog = `2025-01-15T10:30:00Z INFO Service started
2025-01-15T10:30:05Z ERROR Database connection failed
2025-01-15T10:30:10Z WARN Retrying connection
2025-01-15T10:30:15Z ERROR Retry failed`

func setupModel(t *testing.T) Model {
	t.Helper()
	result := parser.New().Parse(sampleLog, "app.log")
	if len(result.Records) != 4 {
		t.Fatalf("fixture parsed into %d records, want 4", len(result.Records))
	}

	m := NewModel(result)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return resized.(Model)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		msg = tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestViewShowsParsedRecords(t *testing.T) {
	m := setupModel(t)
	view := m.View()

	if !strings.Contains(view, "app.log") {
		t.Error("title does not show the filename")
	}
	if !strings.Contains(view, "Service started") {
		t.Error("view does not show the first record")
	}
	if !strings.Contains(view, "4/4 records") {
		t.Errorf("status bar missing record count:\n%s", view)
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	result := parser.New().Parse(sampleLog, "app.log")
	m := NewModel(result)
	if got := m.View(); got != "loading..." {
		t.Errorf("unready view = %q", got)
	}
}

func TestLevelCycleFiltersRecords(t *testing.T) {
	m := setupModel(t)

	// Step the cycle to ERROR: trace, debug, info, warn, error.
	for i := 0; i < 5; i++ {
		m = press(m, "l")
	}

	view := m.View()
	if !strings.Contains(view, "level:ERROR") {
		t.Fatalf("status bar missing level filter:\n%s", view)
	}
	if !strings.Contains(view, "2/4 records") {
		t.Errorf("expected 2 visible records, got view:\n%s", view)
	}
	if strings.Contains(view, "Service started") {
		t.Error("INFO record still visible under ERROR filter")
	}
	if !strings.Contains(view, "Database connection failed") {
		t.Error("ERROR record not visible")
	}

	// Two more steps wrap back to unfiltered.
	m = press(m, "l")
	m = press(m, "l")
	if !strings.Contains(m.View(), "4/4 records") {
		t.Error("cycle did not wrap back to showing everything")
	}
}

func TestSearchFlow(t *testing.T) {
	m := setupModel(t)

	m = press(m, "/")
	if !m.searching {
		t.Fatal("slash did not enter search mode")
	}

	m = typeText(m, "retry")
	if !strings.Contains(m.View(), "search: retry") {
		t.Errorf("search prompt missing query:\n%s", m.View())
	}

	m = press(m, "enter")
	if m.searching {
		t.Error("enter did not leave search mode")
	}

	view := m.View()
	if !strings.Contains(view, "2/4 records") {
		t.Errorf("search did not narrow records:\n%s", view)
	}
	if strings.Contains(view, "Service started") {
		t.Error("non-matching record still visible")
	}
	if !strings.Contains(view, "Retrying connection") {
		t.Error("matching record not visible")
	}
}

func TestSearchEscClearsQuery(t *testing.T) {
	m := setupModel(t)

	m = press(m, "/")
	m = typeText(m, "nothing matches this")
	if strings.Contains(m.View(), "Service started") {
		t.Error("records visible despite non-matching query")
	}

	m = press(m, "esc")
	if m.searching || m.query != "" {
		t.Errorf("esc left searching=%v query=%q", m.searching, m.query)
	}
	if !strings.Contains(m.View(), "4/4 records") {
		t.Error("esc did not restore the full record list")
	}
}

func TestSearchBackspace(t *testing.T) {
	m := setupModel(t)
	m = press(m, "/")
	m = typeText(m, "xy")
	m = press(m, "backspace")
	if m.query != "x" {
		t.Errorf("query = %q, want %q", m.query, "x")
	}
}

func TestScrollingClampsToBounds(t *testing.T) {
	result := parser.New().Parse(sampleLog, "app.log")
	m := NewModel(result)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4}) // room for 2 records
	m = resized.(Model)

	if m.maxOffset() != 2 {
		t.Fatalf("maxOffset = %d, want 2", m.maxOffset())
	}

	for i := 0; i < 10; i++ {
		m = press(m, "j")
	}
	if m.offset != 2 {
		t.Errorf("offset after overscroll down = %d, want 2", m.offset)
	}
	if !strings.Contains(m.View(), "bottom") {
		t.Error("status bar missing bottom indicator")
	}

	for i := 0; i < 10; i++ {
		m = press(m, "k")
	}
	if m.offset != 0 {
		t.Errorf("offset after overscroll up = %d, want 0", m.offset)
	}
	if !strings.Contains(m.View(), "top") {
		t.Error("status bar missing top indicator")
	}

	m = press(m, "G")
	if m.offset != 2 {
		t.Errorf("offset after G = %d, want 2", m.offset)
	}
	m = press(m, "g")
	if m.offset != 0 {
		t.Errorf("offset after g = %d, want 0", m.offset)
	}
}

func TestClearKeyResetsFilters(t *testing.T) {
	m := setupModel(t)
	m = press(m, "/")
	m = typeText(m, "retry")
	m = press(m, "enter")
	m = press(m, "l") // TRACE: nothing matches both filters

	m = press(m, "c")
	if !strings.Contains(m.View(), "4/4 records") {
		t.Error("clear did not reset filters")
	}
}

func TestQuitKeys(t *testing.T) {
	m := setupModel(t)
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range keys {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s did not produce a command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s produced %T, want tea.QuitMsg", msg.String(), cmd())
		}
	}
}
