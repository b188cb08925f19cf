package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"liveroll/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI input and output ports",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	t, err := midi.New(midi.WithLogger(logger))
	if err != nil {
		return err
	}
	defer t.Close()

	ins, err := t.Inputs()
	if err != nil {
		return err
	}
	outs, err := t.Outputs()
	if err != nil {
		return err
	}

	fmt.Println("=== MIDI Input Ports ===")
	if len(ins) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("\n=== MIDI Output Ports ===")
	if len(outs) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}
