package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <har>...",
		Short: "Validate HAR files against the HAR schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if err := validateFile(path); err != nil {
					failed++
					fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("FAIL ")+err.Error())
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), countStyle.Render("ok   ")+pathStyle.Render(path))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}
