// Package tui is the terminal front end. The model never touches the
// session directly: it asks the clock engine for things over a command
// channel and hears back through program messages, so all sequencing
// stays on the engine goroutine.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"liveroll/sequencer"
)

// Command is a request from the UI to the clock engine.
type Command int

const (
	CmdRecord Command = iota
	CmdPlay
	CmdReset
)

// StatusMsg reports engine progress, sent once per beat and on state
// changes.
type StatusMsg struct {
	State      sequencer.State
	Tick       int
	Beat       int
	Bar        int
	TotalTicks int
}

// TakeMsg delivers a finished recording. The matrix is read-only from
// here on, so the model may render it freely.
type TakeMsg struct {
	Matrix *sequencer.Matrix
}

// ErrMsg reports an engine error.
type ErrMsg struct{ Err error }

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	rollStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model for the live screen.
type Model struct {
	cfg      sequencer.Config
	commands chan<- Command

	state      sequencer.State
	tick       int
	beat       int
	bar        int
	totalTicks int

	roll string
	err  error

	width    int
	quitting bool
}

// NewModel builds the initial model. Commands sent by key presses go
// out on the given channel.
func NewModel(cfg sequencer.Config, commands chan<- Command) Model {
	return Model{
		cfg:        cfg,
		commands:   commands,
		state:      sequencer.StateIdle,
		tick:       -1,
		totalTicks: cfg.TotalTicks(),
		width:      80,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			close(m.commands)
			return m, tea.Quit
		case "r":
			m.err = nil
			m.roll = ""
			m.request(CmdRecord)
		case "p", " ":
			m.err = nil
			m.request(CmdPlay)
		case "x":
			m.err = nil
			m.roll = ""
			m.request(CmdReset)
		}

	case StatusMsg:
		m.state = msg.State
		m.tick = msg.Tick
		m.beat = msg.Beat
		m.bar = msg.Bar
		m.totalTicks = msg.TotalTicks

	case TakeMsg:
		m.roll = RenderRoll(msg.Matrix, m.width-8)

	case ErrMsg:
		m.err = msg.Err
	}
	return m, nil
}

// request hands a command to the engine without blocking the UI; a full
// channel means the engine is behind, and the key press is dropped.
func (m Model) request(c Command) {
	select {
	case m.commands <- c:
	default:
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("liveroll"))
	fmt.Fprintf(&b, "  %.0f BPM, %d bars of %d/4\n\n", m.cfg.BPM, m.cfg.Bars, m.cfg.BeatsPerBar)

	b.WriteString(stateStyle.Render(m.state.String()))
	if pos := m.position(); pos != "" {
		b.WriteString("  " + pos)
	}
	b.WriteString("\n")

	switch m.state {
	case sequencer.StateRecording, sequencer.StatePlaying:
		b.WriteString(barStyle.Render(m.progressBar(m.width-4)) + "\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.roll != "" {
		b.WriteString("\n" + rollStyle.Render(m.roll))
	}

	b.WriteString("\n" + helpStyle.Render("r record • p play • x reset • q quit") + "\n")
	return b.String()
}

func (m Model) position() string {
	if m.tick < 0 {
		return ""
	}
	return fmt.Sprintf("bar %d  beat %d  tick %d/%d",
		m.bar+1, m.beat%m.cfg.BeatsPerBar+1, m.tick+1, m.totalTicks)
}

func (m Model) progressBar(width int) string {
	if width < 4 {
		width = 4
	}
	filled := 0
	if m.totalTicks > 0 && m.tick >= 0 {
		filled = (m.tick + 1) * width / m.totalTicks
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
