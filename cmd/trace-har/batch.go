package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/trace-har/internal/batch"
	"github.com/usestring/trace-har/internal/output"
)

func (a *app) batchCmd() *cobra.Command {
	var (
		outDir     string
		filterExpr string
		workers    int
		opts       = output.Options{ASCII: true}
	)

	cmd := &cobra.Command{
		Use:   "batch <trace>...",
		Short: "Convert many traces in parallel",
		Long: `Convert each trace to <out-dir>/<name>.har, where <name> is the trace's
base name without a .zip extension. The first failure stops the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := a.converter(filterExpr)
			if err != nil {
				return err
			}

			results, err := batch.Run(cmd.Context(), args, outDir, batch.Options{
				Workers:   workers,
				Output:    opts,
				Converter: conv,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, r := range results {
				total += r.Entries
				fmt.Fprintf(out, "%s %s %s\n",
					pathStyle.Render(r.Output),
					dimStyle.Render("<-"),
					r.Trace,
				)
			}
			fmt.Fprintf(out, "Wrote %s entries from %s traces to %s\n",
				countStyle.Render(fmt.Sprint(total)),
				countStyle.Render(fmt.Sprint(len(results))),
				pathStyle.Render(outDir),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the HAR files")
	cmd.Flags().IntVar(&workers, "workers", a.cfg.BatchWorkers, "Concurrent conversions")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Overwrite existing HAR output")
	cmd.Flags().BoolVar(&opts.ASCII, "ascii", true, "Escape non-ASCII characters as \\uXXXX")
	cmd.Flags().StringVar(&filterExpr, "filter", "", "Keep only entries for which this jq expression is truthy")
	return cmd
}
