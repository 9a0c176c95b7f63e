// Package batch converts many traces concurrently.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/trace-har/internal/output"
	"github.com/usestring/trace-har/pkg/converter"
	"github.com/usestring/trace-har/pkg/tracesource"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options configures a batch run.
type Options struct {
	Workers   int
	Output    output.Options
	Converter *converter.Converter // nil means converter.New()
	Logger    *slog.Logger
}

// Result describes one converted trace.
type Result struct {
	Trace   string `json:"trace"`
	Output  string `json:"output"`
	Entries int    `json:"entries"`
	Pages   int    `json:"pages"`
}

// OutputName maps a trace path to its HAR file name: the base name with a
// trailing .zip removed, plus ".har".
func OutputName(tracePath string) string {
	base := filepath.Base(filepath.Clean(tracePath))
	if ext := filepath.Ext(base); strings.EqualFold(ext, tracesource.ArchiveExt) {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".har"
}

// Run converts every trace into outDir. Results are in input order. The
// first failure cancels conversions that have not started yet and is
// returned; no results are returned in that case.
func Run(ctx context.Context, traces []string, outDir string, opts Options) ([]Result, error) {
	conv := opts.Converter
	if conv == nil {
		conv = converter.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	outputs := make([]string, len(traces))
	owner := make(map[string]string, len(traces))
	for i, trace := range traces {
		name := OutputName(trace)
		if prev, dup := owner[name]; dup {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, trace, name)
		}
		owner[name] = trace
		outputs[i] = filepath.Join(outDir, name)
	}

	results := make([]Result, len(traces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, trace := range traces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			doc, err := conv.Convert(trace)
			if err != nil {
				return fmt.Errorf("%s: %w", trace, err)
			}
			if err := output.WriteFile(outputs[i], doc, opts.Output); err != nil {
				return fmt.Errorf("%s: %w", trace, err)
			}

			results[i] = Result{
				Trace:   trace,
				Output:  outputs[i],
				Entries: len(doc.Log.Entries),
				Pages:   len(doc.Log.Pages),
			}
			logger.Debug("batch item converted",
				slog.String("trace", trace),
				slog.String("output", outputs[i]),
				slog.Int("entries", results[i].Entries),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
