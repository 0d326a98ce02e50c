package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

func renderCmd() *cobra.Command {
	var format, output string
	var maxDetails int

	cmd := &cobra.Command{
		Use:   "render <findings.json|->",
		Short: "Render findings to a PDF, DOCX or JSON document",
		Example: `  reportctl render findings.json --format pdf
  reportctl render - --format docx -o report.docx < findings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			data, err := render.New(maxDetails).Render(raw, f)
			if err != nil {
				return err
			}

			if output == "" {
				output = "report." + f.Ext()
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s)\n", output, f, humanize.IBytes(uint64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, docx or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default report.<ext>)")
	cmd.Flags().IntVar(&maxDetails, "max-details", render.DefaultMaxDetails, "maximum detail rows accepted")

	return cmd
}
