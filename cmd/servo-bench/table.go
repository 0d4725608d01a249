package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sweeney/servo-bench/internal/logic"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the servo mapping and the transition table",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := renderOutputs(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
		return renderTransitions(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}

// inputCombos enumerates every debounced input combination.
func inputCombos() []logic.Inputs {
	var out []logic.Inputs
	for i := 0; i < 8; i++ {
		out = append(out, logic.Inputs{
			ArmFire:   i&1 != 0,
			Disarm:    i&2 != 0,
			CamSwitch: i&4 != 0,
		})
	}
	return out
}

// comboLabel abbreviates asserted inputs as A (arm_fire), D (disarm), C (cam_switch).
func comboLabel(in logic.Inputs) string {
	b := []byte("---")
	if in.ArmFire {
		b[0] = 'A'
	}
	if in.Disarm {
		b[1] = 'D'
	}
	if in.CamSwitch {
		b[2] = 'C'
	}
	return string(b)
}

func renderOutputs(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("code", "state", "command", "pulse (us)", "indicator")
	for _, s := range logic.States {
		cmd, indicator := logic.Output(s)
		if err := table.Append([]string{
			fmt.Sprintf("%d", s.Code()),
			s.String(),
			cmd.String(),
			fmt.Sprintf("%d", cmd.PulseWidth().Microseconds()),
			fmt.Sprintf("%v", indicator),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// renderTransitions prints the next state for every state and input
// combination; "." marks a combination that leaves the state unchanged.
func renderTransitions(w io.Writer) error {
	combos := inputCombos()

	header := []any{"state"}
	for _, in := range combos {
		header = append(header, comboLabel(in))
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, s := range logic.States {
		row := []string{s.String()}
		for _, in := range combos {
			next := logic.Next(s, in)
			if next == s {
				row = append(row, ".")
				continue
			}
			row = append(row, next.String())
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
