package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/trace-har/pkg/mcpsrv"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve trace conversion over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server owns logging from here on.
			a.close()
			server, err := mcpsrv.NewServer(mcpsrv.WithConfig(a.cfg))
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting trace-har MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
