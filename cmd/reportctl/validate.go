package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

func validateCmd() *cobra.Command {
	var nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <findings.json|->",
		Short: "Validate findings against the findings schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			}

			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := render.ValidateFindings(raw); err != nil {
				color.New(color.FgRed).Fprintf(out, "findings are invalid (%s)\n", args[0])
				return err
			}

			color.New(color.FgGreen).Fprintf(out, "findings are valid (%s)\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}
