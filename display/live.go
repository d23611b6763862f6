// Package display renders a live-coding session to the terminal: a small
// bubbletea program showing transport status and the most recent sounds
// triggered, plus a way to surface diagnostics as they arrive.
package display

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"strudel-go/pattern"
	"strudel-go/scheduler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	cycleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6666"))
)

// tickMsg drives the periodic redraw, the same polling idiom the original
// playback TUI used for its 50ms refresh.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// triggeredMsg reports one Hap as it crosses the sink, fed in from a
// tee'd scheduler.Sink (see TeeSink below).
type triggeredMsg struct {
	value pattern.Value
}

// diagMsg reports a diagnostic pulled off pattern.Diagnostics.
type diagMsg struct {
	d pattern.Diagnostic
}

const historySize = 8

// LiveModel is the bubbletea model for a running session: title, the
// scheduler to poll for status, and a rolling history of triggered sounds
// and diagnostics.
type LiveModel struct {
	title    string
	sched    *scheduler.Scheduler
	events   chan pattern.Value
	history  []string
	errors   []string
	quitting bool
}

// NewLiveModel builds a live view over a running scheduler. events should
// be fed by a TeeSink wrapping the scheduler's real sink.
func NewLiveModel(title string, sched *scheduler.Scheduler, events chan pattern.Value) *LiveModel {
	return &LiveModel{title: title, sched: sched, events: events}
}

func (m *LiveModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForEvent(), m.waitForDiag())
}

func (m *LiveModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.events
		if !ok {
			return nil
		}
		return triggeredMsg{value: v}
	}
}

func (m *LiveModel) waitForDiag() tea.Cmd {
	return func() tea.Msg {
		d := <-pattern.Diagnostics
		return diagMsg{d: d}
	}
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		return m, tickCmd()
	case triggeredMsg:
		line := msg.value.String()
		m.history = append(m.history, line)
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
		return m, m.waitForEvent()
	case diagMsg:
		m.errors = append(m.errors, fmt.Sprintf("%s: %s", msg.d.Kind, msg.d.Message))
		if len(m.errors) > historySize {
			m.errors = m.errors[len(m.errors)-historySize:]
		}
		return m, m.waitForDiag()
	}
	return m, nil
}

func (m *LiveModel) View() string {
	if m.quitting {
		return ""
	}
	st := m.sched.Status()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("cps %s  cycle %s\n", cycleStyle.Render(st.Cps.String()), cycleStyle.Render(st.Cycle.String())))
	b.WriteString(dimStyle.Render("q to quit"))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("recent events"))
	b.WriteString("\n")
	for _, h := range m.history {
		b.WriteString(eventStyle.Render(h))
		b.WriteString("\n")
	}

	if len(m.errors) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("diagnostics"))
		b.WriteString("\n")
		for _, e := range m.errors {
			b.WriteString(errorStyle.Render(e))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(m *LiveModel) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

// TeeSink wraps an existing scheduler.Sink, forwarding every Emit call to
// it unchanged while also pushing the value onto a channel a LiveModel
// can drain for display.
type TeeSink struct {
	Inner  scheduler.Sink
	events chan pattern.Value
}

// NewTeeSink builds a tee in front of inner; Events() returns the channel
// to pass to NewLiveModel.
func NewTeeSink(inner scheduler.Sink) *TeeSink {
	return &TeeSink{Inner: inner, events: make(chan pattern.Value, 64)}
}

func (t *TeeSink) Events() chan pattern.Value { return t.events }

func (t *TeeSink) Emit(at time.Time, v pattern.Value, dur time.Duration, ctx pattern.Context) {
	t.Inner.Emit(at, v, dur, ctx)
	select {
	case t.events <- v:
	default:
	}
}
