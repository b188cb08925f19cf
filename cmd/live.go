package cmd

import (
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liveroll/config"
	"liveroll/internal/logging"
	"liveroll/internal/tui"
	"liveroll/midi"
	"liveroll/sequencer"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Interactive capture and playback",
	Long: `live starts the terminal UI. Press r to record a take, p to play it
back, x to discard it and q to quit. The clock engine runs on its own
goroutine; log output goes to debug.log in the config directory.`,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to a file.
	fileLogger := zap.NewNop()
	if dir, err := config.ConfigDir(); err == nil {
		if l, err := logging.NewFile(filepath.Join(dir, "debug.log"), cfg.Debug); err == nil {
			fileLogger = l
			defer fileLogger.Sync()
		}
	}

	t, err := midi.New(
		midi.WithLogger(fileLogger),
		midi.WithInputPort(cfg.Ports.Input),
		midi.WithOutputPort(cfg.Ports.Output),
		midi.WithVirtualName(cfg.Ports.VirtualName),
		midi.WithChannel(cfg.Ports.Channel),
	)
	if err != nil {
		return err
	}
	defer t.Close()

	sess, err := sequencer.NewSession(cfg.SequencerConfig(),
		sequencer.WithLogger(fileLogger),
		sequencer.WithTransport(t),
		sequencer.WithRestartOnSilence(cfg.Session.RestartOnSilence),
	)
	if err != nil {
		return err
	}
	if err := sess.OpenInput(); err != nil {
		return err
	}
	if err := sess.OpenOutput(); err != nil {
		return err
	}

	commands := make(chan tui.Command, 4)
	model := tui.NewModel(sess.Config(), commands)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runEngine(p, sess, commands)

	_, err = p.Run()
	return err
}

// runEngine is the clock loop. It owns the session: the model only
// talks to it through the command channel, and hears back through
// program messages.
func runEngine(p *tea.Program, sess *sequencer.Session, commands <-chan tui.Command) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	lastBeat := -1
	for {
		select {
		case c, ok := <-commands:
			if !ok {
				return
			}
			switch c {
			case tui.CmdRecord:
				if err := sess.StartRecording(); err != nil {
					p.Send(tui.ErrMsg{Err: err})
					continue
				}
			case tui.CmdPlay:
				if err := sess.StartPlayback(nil); err != nil {
					p.Send(tui.ErrMsg{Err: err})
					continue
				}
			case tui.CmdReset:
				sess.Reset()
			}
			lastBeat = -1
			p.Send(statusOf(sess))
		default:
		}

		switch sess.State() {
		case sequencer.StateRecording, sequencer.StatePlaying:
			done, err := sess.Poll()
			if err != nil {
				p.Send(tui.ErrMsg{Err: err})
				sess.Reset()
				p.Send(statusOf(sess))
				continue
			}
			if b := sess.Beat(); b != lastBeat {
				lastBeat = b
				p.Send(statusOf(sess))
			}
			if done {
				p.Send(statusOf(sess))
				if m, err := sess.Matrix(); err == nil && sess.State() == sequencer.StateRecordingComplete {
					p.Send(tui.TakeMsg{Matrix: m})
				}
			}
		default:
			// Idle or a terminal state: nothing to poll.
			time.Sleep(time.Millisecond)
		}
	}
}

func statusOf(sess *sequencer.Session) tui.StatusMsg {
	return tui.StatusMsg{
		State:      sess.State(),
		Tick:       sess.Tick(),
		Beat:       sess.Beat(),
		Bar:        sess.Bar(),
		TotalTicks: sess.Config().TotalTicks(),
	}
}
