package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"liveroll/internal/tui"
	"liveroll/midi"
	"liveroll/sequencer"
)

var (
	recEcho    bool
	recRestart bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one take from the input port and print the roll",
	Long: `record arms the clock and captures incoming notes for the configured
number of bars. Playing the end-of-sequence note stops the take early.
The finished piano roll is printed to stdout; with --echo it is also
played back through the output port.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().BoolVar(&recEcho, "echo", false, "play the take back after recording")
	recordCmd.Flags().BoolVar(&recRestart, "restart-on-silence", false, "start over if the take ends with no notes")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	t, err := midi.New(
		midi.WithLogger(logger),
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
		sequencer.WithLogger(logger),
		sequencer.WithTransport(t),
		sequencer.WithRestartOnSilence(recRestart || cfg.Session.RestartOnSilence),
	)
	if err != nil {
		return err
	}
	if err := sess.OpenInput(); err != nil {
		return err
	}
	if recEcho {
		if err := sess.OpenOutput(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := sess.Config()
	fmt.Printf("Recording %d bars of %d/4 at %.0f BPM. Note %d ends the take.\n",
		sc.Bars, sc.BeatsPerBar, sc.BPM, sc.EndSeqNote)

	if err := sess.StartRecording(); err != nil {
		return err
	}
	if err := pollUntilDone(ctx, sess, true); err != nil {
		return err
	}
	if sess.State() != sequencer.StateRecordingComplete {
		fmt.Println("\ninterrupted")
		return nil
	}

	m, err := sess.Matrix()
	if err != nil {
		return err
	}
	fmt.Printf("\nCaptured %d ticks:\n\n%s\n", m.Len(), tui.RenderRoll(m, 72))

	if !recEcho {
		return nil
	}
	fmt.Println("Playing back...")
	if err := sess.StartPlayback(nil); err != nil {
		return err
	}
	if err := pollUntilDone(ctx, sess, false); err != nil {
		return err
	}
	return nil
}

// pollUntilDone spins the session loop on a pinned OS thread until the
// current take or playback finishes, printing a metronome count per
// beat.
func pollUntilDone(ctx context.Context, sess *sequencer.Session, metronome bool) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	lastBeat := -1
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		done, err := sess.Poll()
		if err != nil {
			return err
		}
		if metronome {
			if b := sess.Beat(); b != lastBeat && sess.Tick() >= 0 {
				lastBeat = b
				fmt.Printf("%d ", b%sess.Config().BeatsPerBar+1)
			}
		}
		if done {
			return nil
		}
	}
}
