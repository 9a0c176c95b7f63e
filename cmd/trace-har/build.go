package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/trace-har/internal/harschema"
	"github.com/usestring/trace-har/internal/output"
)

func (a *app) buildCmd() *cobra.Command {
	var (
		outPath    string
		filterExpr string
		opts       = output.Options{ASCII: true}
		validate   bool
	)

	cmd := &cobra.Command{
		Use:   "build <trace>",
		Short: "Convert a Playwright trace into a standalone HAR file",
		Long: `Convert a Playwright trace (directory or .zip) into a standalone HAR file.

An existing output file is never replaced unless --overwrite is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace := args[0]
			if _, err := os.Stat(trace); err != nil {
				return fmt.Errorf("trace %s: %w", trace, err)
			}
			if !opts.Overwrite {
				if _, err := os.Stat(outPath); err == nil {
					return fmt.Errorf("%w: %s", output.ErrOutputExists, outPath)
				}
			}

			conv, err := a.converter(filterExpr)
			if err != nil {
				return err
			}
			doc, err := conv.Convert(trace)
			if err != nil {
				return err
			}
			if err := output.WriteFile(outPath, doc, opts); err != nil {
				return err
			}

			if validate {
				if err := validateFile(outPath); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s entries across %s pages to %s\n",
				countStyle.Render(fmt.Sprint(len(doc.Log.Entries))),
				countStyle.Render(fmt.Sprint(len(doc.Log.Pages))),
				pathStyle.Render(outPath),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "trace.har", "Output HAR path")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Overwrite existing HAR output")
	cmd.Flags().BoolVar(&opts.ASCII, "ascii", true, "Escape non-ASCII characters as \\uXXXX")
	cmd.Flags().StringVar(&filterExpr, "filter", "", "Keep only entries for which this jq expression is truthy")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the written HAR against the HAR schema")
	return cmd
}

// errInvalidHAR is returned when a HAR file fails validation.
var errInvalidHAR = errors.New("invalid HAR")

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := harschema.Default()
	if err != nil {
		return err
	}
	result := v.Validate(data)
	if !result.Valid {
		return fmt.Errorf("%w %s:\n  %s", errInvalidHAR, path, strings.Join(result.Errors, "\n  "))
	}
	return nil
}
