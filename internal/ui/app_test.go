package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/wrehfeld/logscope/internal/config"
	"github.com/wrehfeld/logscope/internal/series"
	"github.com/wrehfeld/logscope/internal/stream"
	"github.com/wrehfeld/logscope/internal/tail"
)

func newTestModel(t *testing.T, content string) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	src := tail.NewSource(path, zerolog.Nop())
	engine, err := stream.New(src, series.Spec{}, 100, zerolog.Nop())
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return New(Options{Engine: engine, Config: config.Defaults(), Path: path})
}

func TestView_NotReadyBeforeFirstResize(t *testing.T) {
	m := newTestModel(t, "")
	if got := m.View(); got != "Loading..." {
		t.Errorf("View before resize = %q, want loading placeholder", got)
	}
}

func TestUpdate_TickDrivesEngineAndReschedules(t *testing.T) {
	m := newTestModel(t, "x,y\n1,2\n2,4\n")

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("resize produced a command, want none")
	}

	next, cmd = m.Update(tickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("tick produced no follow-up command, want rescheduled tick")
	}

	view := m.View()
	if !strings.Contains(view, "y vs. x") {
		t.Errorf("View after tick missing series legend, got:\n%s", view)
	}
	if !strings.Contains(view, "rows 2") {
		t.Errorf("View after tick missing row count, got:\n%s", view)
	}
}

func TestUpdate_PauseFreezesPipeline(t *testing.T) {
	m := newTestModel(t, "x,y\n1,2\n")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = next.(Model)

	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	if got := m.engine.Stats().Rows; got != 0 {
		t.Errorf("paused tick consumed %d rows, want 0", got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = next.(Model)
	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	if got := m.engine.Stats().Rows; got != 1 {
		t.Errorf("resumed tick consumed %d rows, want 1", got)
	}
}

func TestUpdate_FatalConfigErrorQuits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("t,a\n0,1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	src := tail.NewSource(path, zerolog.Nop())
	spec := series.Spec{Y: series.ParseSelectors("missing")}
	engine, err := stream.New(src, spec, 100, zerolog.Nop())
	if err != nil {
		t.Fatalf("stream.New: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	m := New(Options{Engine: engine, Config: config.Defaults(), Path: path})

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if m.Err() == nil {
		t.Fatalf("model has no error after unresolvable selector")
	}
	if cmd == nil {
		t.Fatalf("fatal error should quit the program")
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	m := newTestModel(t, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("quit key produced no command")
	}
}
