package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"liveroll/sequencer"
)

func newTestModel(t *testing.T) (Model, chan Command) {
	t.Helper()
	commands := make(chan Command, 4)
	return NewModel(sequencer.DefaultConfig(), commands), commands
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelRecordKeySendsCommand(t *testing.T) {
	m, commands := newTestModel(t)

	updated, _ := m.Update(keyMsg("r"))
	m = updated.(Model)

	select {
	case c := <-commands:
		if c != CmdRecord {
			t.Errorf("got command %d, want CmdRecord", c)
		}
	default:
		t.Fatal("r should queue a record command")
	}
}

func TestModelPlayAndResetKeys(t *testing.T) {
	m, commands := newTestModel(t)

	updated, _ := m.Update(keyMsg("p"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("x"))
	m = updated.(Model)

	if c := <-commands; c != CmdPlay {
		t.Errorf("first command = %d, want CmdPlay", c)
	}
	if c := <-commands; c != CmdReset {
		t.Errorf("second command = %d, want CmdReset", c)
	}
}

func TestModelQuitClosesCommands(t *testing.T) {
	m, commands := newTestModel(t)

	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
	if _, open := <-commands; open {
		t.Error("q should close the command channel")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestModelStatusUpdatesView(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(StatusMsg{
		State:      sequencer.StateRecording,
		Tick:       47,
		Beat:       1,
		Bar:        0,
		TotalTicks: 192,
	})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Recording") {
		t.Errorf("view missing state:\n%s", view)
	}
	if !strings.Contains(view, "bar 1") || !strings.Contains(view, "beat 2") {
		t.Errorf("view missing position:\n%s", view)
	}
	if !strings.Contains(view, "tick 48/192") {
		t.Errorf("view missing tick count:\n%s", view)
	}
}

func TestModelTakeRendersRoll(t *testing.T) {
	m, _ := newTestModel(t)

	take := sequencer.NewMatrix(8)
	take.Set(0, 60, 100)
	updated, _ := m.Update(TakeMsg{Matrix: take})
	m = updated.(Model)

	if !strings.Contains(m.View(), "C4") {
		t.Errorf("view should show the finished roll:\n%s", m.View())
	}
}

func TestModelErrShownAndClearedOnRecord(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(ErrMsg{Err: errors.New("port gone")})
	m = updated.(Model)
	if !strings.Contains(m.View(), "port gone") {
		t.Errorf("view should show the error:\n%s", m.View())
	}

	updated, _ = m.Update(keyMsg("r"))
	m = updated.(Model)
	if strings.Contains(m.View(), "port gone") {
		t.Error("starting a new take should clear the error")
	}
}
