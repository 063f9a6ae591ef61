package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

func inspectCmd(a *app) *cobra.Command {
	var (
		src      sourceFlags
		asJSON   bool
		showDups bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the missing-value summary of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, t, err := a.loadSource(cmd.Context(), args, src)
			if err != nil {
				return err
			}

			sess, err := cleaner.NewSession(a.logger)
			if err != nil {
				return err
			}
			if _, err := sess.Initialize(source, t, model.LoadOptions{}); err != nil {
				return err
			}

			report, err := sess.Summary()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			if err := printSummary(out, source, report); err != nil {
				return err
			}
			if showDups && report.Duplicates > 0 {
				_, indices, err := sess.Duplicates()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nDuplicate row indices: %v\n", indices)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&showDups, "show-duplicates", false, "list the indices of duplicate rows")
	return cmd
}

func printSummary(w io.Writer, source string, report model.SummaryReport) error {
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Rows: %d  Columns: %d  Duplicate rows: %d\n\n", report.Rows, len(report.Columns), report.Duplicates)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tDTYPE\tMISSING\tMISSING %")
	for _, col := range report.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", col.Name, col.Dtype, col.Missing, col.MissingPct)
	}
	return tw.Flush()
}
