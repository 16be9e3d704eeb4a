// Package ui renders the live chart with Bubble Tea. Each tick runs one
// engine pass and one redraw; polling, parsing, routing, and buffering
// all happen synchronously inside the update loop, so the window
// buffers are never touched from two goroutines.
package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wrehfeld/logscope/internal/config"
	"github.com/wrehfeld/logscope/internal/stream"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Engine  *stream.Engine
	Config  config.Config
	Path    string
}

// Model is the root Bubble Tea state.
type Model struct {
	engine *stream.Engine
	cfg    config.Config
	path   string

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	paused   bool
	showHelp bool
	fatalErr error
}

// New creates the root model.
func New(opts Options) Model {
	return Model{
		engine: opts.Engine,
		cfg:    opts.Config,
		path:   opts.Path,
		theme:  NewTheme(opts.Config.Palette),
		keys:   defaultKeyMap(),
	}
}

// Err returns the configuration error that terminated the session, if any.
func (m Model) Err() error {
	return m.fatalErr
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd(m.cfg.Interval))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

// handleTick runs one pipeline pass. A tick with no new data still
// redraws; only configuration errors end the session.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		if _, err := m.engine.Tick(); err != nil {
			m.fatalErr = err
			return m, tea.Quit
		}
	}
	return m, tickCmd(m.cfg.Interval)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	chartHeight := m.height - 3 // header, legend, status
	if chartHeight < 3 {
		chartHeight = 3
	}
	b.WriteString(renderChart(m.seriesViews(), m.width, chartHeight, m.cfg.Margin, m.theme))
	b.WriteString("\n")
	b.WriteString(m.renderLegend())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) seriesViews() []seriesView {
	resolved := m.engine.Series()
	views := make([]seriesView, 0, len(resolved))
	for _, s := range resolved {
		views = append(views, seriesView{
			label:  s.Label,
			points: m.engine.Snapshot(s.Label),
		})
	}
	return views
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("logscope")
	name := m.theme.Muted.Render(filepath.Base(m.path))
	state := m.engine.State().String()
	if m.paused {
		state = "paused"
	}
	var stateStr string
	switch state {
	case "streaming":
		stateStr = lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Render(state)
	case "stalled", "paused":
		stateStr = m.theme.Warn.Render(state)
	default:
		stateStr = m.theme.Muted.Render(state)
	}
	return fmt.Sprintf(" %s  %s  %s", title, name, stateStr)
}

func (m Model) renderLegend() string {
	views := m.engine.Series()
	if len(views) == 0 {
		return m.theme.Muted.Render(" waiting for first record")
	}
	parts := make([]string, 0, len(views))
	for i, s := range views {
		dot := lipgloss.NewStyle().Foreground(m.theme.SeriesColor(i)).Render("●")
		parts = append(parts, dot+" "+s.Label)
	}
	return " " + strings.Join(parts, "   ")
}

func (m Model) renderStatus() string {
	stats := m.engine.Stats()
	status := fmt.Sprintf(" rows %d  skipped %d  window %d  every %s  q quit  p pause  ? help ",
		stats.Rows, stats.Skipped, m.cfg.MaxSamples, m.cfg.Interval)
	return m.theme.Status.Width(m.width).Render(status)
}

func (m Model) renderHelp() string {
	lines := []string{
		"",
		"  logscope — live CSV log plotter",
		"",
		"  q / ctrl+c / esc   quit",
		"  p / space          pause and resume redraw",
		"  ? / h              toggle this help",
		"",
		"  The chart follows the newest samples in the capture window.",
		"  Press any key to close.",
	}
	return m.theme.Help.Render(strings.Join(lines, "\n"))
}

// Messages and commands

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the program and blocks until quit, cancellation, or a
// fatal configuration error.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		// An external interrupt is a clean shutdown, not a failure.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
