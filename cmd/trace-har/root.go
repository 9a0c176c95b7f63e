package main

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usestring/trace-har/internal/config"
	"github.com/usestring/trace-har/internal/filter"
	"github.com/usestring/trace-har/internal/logging"
	"github.com/usestring/trace-har/pkg/converter"
)

var (
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// app carries configuration and teardown across subcommands.
type app struct {
	cfg     *config.Config
	cleanup func() error
}

func newApp(cfg *config.Config) *app {
	return &app{cfg: cfg}
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
		a.cleanup = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trace-har",
		Short: "Rebuild HAR files from Playwright traces",
		Long: `Rebuild HAR 1.2 files from the network log captured in Playwright traces.

A trace is either an unpacked directory or a .zip archive containing
trace.trace, trace.network and a resources/ directory of bodies.

Quick Start:
  trace-har build trace.zip -o login.har     # Convert one trace
  trace-har batch runs/*.zip --out-dir hars  # Convert many in parallel
  trace-har validate login.har               # Check a HAR file
  trace-har mcp                              # Serve over MCP stdio`,
		Version:       converter.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "Log format: text or json")
	root.PersistentFlags().StringVar(&a.cfg.LogFile, "log-file", a.cfg.LogFile, "Write logs to a rotating file instead of stderr")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		a.buildCmd(),
		a.batchCmd(),
		a.validateCmd(),
		a.mcpCmd(),
	)
	return root
}

func (a *app) setupLogging() error {
	a.close()
	cleanup, err := logging.Setup(logging.Config{
		Level:      a.cfg.LogLevel,
		Format:     a.cfg.LogFormat,
		FilePath:   a.cfg.LogFile,
		MaxSizeMB:  a.cfg.LogMaxSizeMB,
		MaxBackups: a.cfg.LogMaxBackups,
		MaxAgeDays: a.cfg.LogMaxAgeDays,
		Compress:   a.cfg.LogCompress,
	})
	if err != nil {
		return err
	}
	a.cleanup = cleanup
	return nil
}

// converter builds a converter from configuration and an optional jq
// filter expression.
func (a *app) converter(filterExpr string) (*converter.Converter, error) {
	opts := []converter.Option{
		converter.WithBodyCacheSize(a.cfg.BodyCacheMaxItems),
		converter.WithLogger(slog.Default()),
	}
	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, converter.WithEntryFilter(f))
	}
	return converter.New(opts...), nil
}
