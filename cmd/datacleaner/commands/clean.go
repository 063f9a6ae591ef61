package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/config"
	"github.com/David-Botos/data-cleaning/pkg/exporter"
	"github.com/David-Botos/data-cleaning/pkg/metrics"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

type cleanOptions struct {
	src        sourceFlags
	planPath   string
	strategies []string
	dedupe     bool
	dropna     bool
	out        string
	bom        bool
}

func cleanCmd(a *app) *cobra.Command {
	var o cleanOptions

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Apply strategies and row removals, then export the result",
		Example: `  datacleaner clean people.csv --strategy age=median --strategy city=cat_constant:Unknown --dedupe --out cleaned.csv
  datacleaner clean --pg-table public.people --plan plan.toml --out cleaned.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, specs, err := o.resolve()
			if err != nil {
				return err
			}

			source, t, err := a.loadSource(cmd.Context(), args, o.src)
			if err != nil {
				return err
			}

			m := metrics.NewCleaningMetrics(prometheus.NewRegistry(), a.logger)
			defer m.LogSummary()

			sess, err := cleaner.NewSession(a.logger, cleaner.WithMetrics(m))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			outcome, err := sess.Initialize(source, t, opts)
			if err != nil {
				return err
			}
			if opts.RemoveDuplicates {
				fmt.Fprintf(w, "Removed %d duplicate rows.\n", outcome.DuplicatesRemoved)
			}
			if opts.DropMissing {
				fmt.Fprintf(w, "Removed %d rows with missing values.\n", outcome.MissingRemoved)
			}

			if len(specs) > 0 {
				result, err := sess.ApplyStrategies(specs)
				if err != nil {
					return err
				}
				for _, notice := range result.Skipped {
					fmt.Fprintln(w, notice.String())
				}
				fmt.Fprintf(w, "Filled %d missing cells in %d columns.\n", result.CellsFilled, len(result.Applied))
			}

			cmp, err := sess.Comparison()
			if err != nil {
				return err
			}
			if err := printComparison(w, cmp); err != nil {
				return err
			}

			if o.out == "" {
				return nil
			}
			working, err := sess.Working()
			if err != nil {
				return err
			}
			if err := exporter.WriteFile(o.out, working, exporter.WriteOptions{BOMPrefix: o.bom || a.cfg.CSVBOM}); err != nil {
				return err
			}
			fmt.Fprintf(w, "Wrote %d rows to %s\n", working.NumRows(), o.out)
			return nil
		},
	}

	o.src.register(cmd)
	cmd.Flags().StringVar(&o.planPath, "plan", "", "TOML cleaning plan")
	cmd.Flags().StringArrayVar(&o.strategies, "strategy", nil, "column strategy as col=kind[:param], repeatable")
	cmd.Flags().BoolVar(&o.dedupe, "dedupe", false, "remove duplicate rows before applying strategies")
	cmd.Flags().BoolVar(&o.dropna, "dropna", false, "remove rows with any missing value before applying strategies")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the cleaned table to a .csv or .xlsx file")
	cmd.Flags().BoolVar(&o.bom, "bom", false, "prefix CSV output with a UTF-8 BOM")
	return cmd
}

// resolve merges the plan file with command line flags. Flags win.
func (o *cleanOptions) resolve() (model.LoadOptions, model.Strategies, error) {
	var opts model.LoadOptions
	specs := model.Strategies{}

	if o.planPath != "" {
		plan, err := config.LoadPlan(o.planPath)
		if err != nil {
			return opts, nil, err
		}
		opts = plan.LoadOptions()
		planned, err := plan.Strategies()
		if err != nil {
			return opts, nil, err
		}
		maps.Copy(specs, planned)
	}

	for _, raw := range o.strategies {
		col, spec, err := config.ParseStrategyFlag(raw)
		if err != nil {
			return opts, nil, err
		}
		specs[col] = spec
	}

	opts.RemoveDuplicates = opts.RemoveDuplicates || o.dedupe
	opts.DropMissing = opts.DropMissing || o.dropna
	return opts, specs, nil
}

func printComparison(w io.Writer, cmp model.Comparison) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tBEFORE\tAFTER")
	fmt.Fprintf(tw, "rows\t%d\t%d\n", cmp.Before.Rows, cmp.After.Rows)
	fmt.Fprintf(tw, "columns\t%d\t%d\n", cmp.Before.Columns, cmp.After.Columns)
	for _, name := range slices.Sorted(maps.Keys(cmp.Before.Missing)) {
		fmt.Fprintf(tw, "missing %s\t%d\t%d\n", name, cmp.Before.Missing[name], cmp.After.Missing[name])
	}
	return tw.Flush()
}
