package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the raw inputs and the state the controller would boot into",
	RunE: func(_ *cobra.Command, _ []string) error {
		configureVerbosity()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reader, err := gpio.NewRealReader(cfg.Chip, cfg.InputPins())
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer reader.Close()

		in, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		printState(os.Stdout, in)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func levelString(asserted bool) string {
	if asserted {
		return color.GreenString("asserted")
	}
	return color.New(color.Faint).Sprint("released")
}

func printState(w io.Writer, in logic.Inputs) {
	fmt.Fprintf(w, "%-10s %s\n", gpio.ArmFire, levelString(in.ArmFire))
	fmt.Fprintf(w, "%-10s %s\n", gpio.Disarm, levelString(in.Disarm))
	fmt.Fprintf(w, "%-10s %s\n", gpio.CamSwitch, levelString(in.CamSwitch))

	s := logic.InitialState(in.CamSwitch)
	cmd, _ := logic.Output(s)
	fmt.Fprintf(w, "boot state %s (%d), servo %s\n", color.CyanString(s.String()), s.Code(), cmd)
}
