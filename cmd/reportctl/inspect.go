package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <findings.json|->",
		Short: "Print findings metadata and the control table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			f, err := render.ParseFindings(raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report ID:    %s\n", f.ReportID)
			fmt.Fprintf(out, "Status:       %s\n", f.Status)
			fmt.Fprintf(out, "Processed At: %s\n", f.ProcessedLabel())
			if f.FileKey != "" {
				fmt.Fprintf(out, "File Key:     %s\n", f.FileKey)
			}
			if f.Summary != "" {
				fmt.Fprintf(out, "Summary:      %s\n", f.Summary)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, detailsTable(f))

			return nil
		},
	}
}

func detailsTable(f *render.Findings) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Control", "Status"})

	for i, d := range f.Details {
		tbl.AppendRow(table.Row{i + 1, d.Control, d.Status})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d controls", len(f.Details)), ""})
	return tbl.Render()
}
