package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liveroll/config"
	"liveroll/internal/logging"
)

var (
	cfgPath string
	debug   bool

	flagBPM     float64
	flagPPQ     int
	flagBars    int
	flagBeats   int
	flagEndNote uint8
	flagIn      string
	flagOut     string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "liveroll",
	Short: "Live MIDI capture to a piano roll, and back",
	Long: `liveroll records live MIDI input against a musical clock into a
piano-roll matrix (ticks x 128 pitches) and replays matrices as timed
note streams, without writing an intermediate MIDI file.

A recording runs for a fixed number of bars, or until the
end-of-sequence note (default 127, the highest key) is played.`,
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.config/liveroll/config.json)")
	pf.BoolVar(&debug, "debug", false, "verbose logging")
	pf.Float64Var(&flagBPM, "bpm", 120, "tempo in beats per minute")
	pf.IntVar(&flagPPQ, "ppq", 24, "clock resolution in pulses per quarter note")
	pf.IntVar(&flagBars, "bars", 2, "number of bars to record")
	pf.IntVar(&flagBeats, "beats-per-bar", 4, "beats per bar")
	pf.Uint8Var(&flagEndNote, "end-note", 127, "note that ends a recording early")
	pf.StringVar(&flagIn, "in", "", "input port name (substring match, default first port)")
	pf.StringVar(&flagOut, "out", "", "output port name (default autodetect synth, else virtual port)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFile(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Flags beat the config file.
	f := cmd.Flags()
	if f.Changed("bpm") {
		cfg.Session.BPM = flagBPM
	}
	if f.Changed("ppq") {
		cfg.Session.PPQ = flagPPQ
	}
	if f.Changed("bars") {
		cfg.Session.Bars = flagBars
	}
	if f.Changed("beats-per-bar") {
		cfg.Session.BeatsPerBar = flagBeats
	}
	if f.Changed("end-note") {
		cfg.Session.EndSeqNote = flagEndNote
	}
	if f.Changed("in") {
		cfg.Ports.Input = flagIn
	}
	if f.Changed("out") {
		cfg.Ports.Output = flagOut
	}
	if debug {
		cfg.Debug = true
	}

	logger = logging.New(cfg.Debug)
	return nil
}
