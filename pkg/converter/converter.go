// Package converter rebuilds a HAR document from a Playwright trace.
//
// # Basic Usage
//
//	doc, err := converter.Convert("trace.zip")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	json.NewEncoder(os.Stdout).Encode(doc)
//
// Errors wrap tracesource.ErrUnsupportedFormat, tracesource.ErrMissingMember
// or extract.ErrMalformedRecord and can be tested with errors.Is.
package converter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/usestring/trace-har/internal/cache"
	"github.com/usestring/trace-har/internal/extract"
	"github.com/usestring/trace-har/internal/filter"
	"github.com/usestring/trace-har/pkg/har"
	"github.com/usestring/trace-har/pkg/tracesource"
)

// Version is written to log.creator.version. Release builds set it with
// -ldflags "-X github.com/usestring/trace-har/pkg/converter.Version=...".
var Version = "0.1.0"

// DefaultBodyCacheSize bounds the per-conversion cache of resolved bodies.
const DefaultBodyCacheSize = 256

// Browser defaults used when the trace has no context-options record.
const (
	UnknownBrowserName    = "unknown"
	UnknownBrowserVersion = ""
)

// Converter turns traces into HAR documents. A Converter holds no state
// between conversions and may be used from several goroutines.
type Converter struct {
	creatorVersion string
	filter         *filter.Filter
	bodyCacheSize  int
	logger         *slog.Logger

	open func(string) (tracesource.Source, error)
}

// Option configures a Converter.
type Option func(*Converter)

// WithCreatorVersion overrides the log.creator.version value.
func WithCreatorVersion(v string) Option {
	return func(c *Converter) {
		c.creatorVersion = v
	}
}

// WithEntryFilter keeps only entries matching f. Pages are derived from the
// entries that remain.
func WithEntryFilter(f *filter.Filter) Option {
	return func(c *Converter) {
		c.filter = f
	}
}

// WithBodyCacheSize sets how many resolved bodies are memoised per
// conversion. Zero or less disables the cache.
func WithBodyCacheSize(n int) Option {
	return func(c *Converter) {
		c.bodyCacheSize = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		creatorVersion: Version,
		bodyCacheSize:  DefaultBodyCacheSize,
		logger:         slog.Default(),
		open:           tracesource.Open,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts the trace at path with a default Converter.
func Convert(path string, opts ...Option) (*har.Document, error) {
	return New(opts...).Convert(path)
}

// Convert opens the trace at path (a directory or a .zip archive) and builds
// its HAR document. The trace is closed before Convert returns, including on
// error. No partial document is returned on failure.
func (c *Converter) Convert(path string) (doc *har.Document, err error) {
	start := time.Now()

	src, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			doc, err = nil, fmt.Errorf("closing trace: %w", cerr)
		}
	}()

	doc, err = c.ConvertSource(src)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("converted trace",
		slog.String("path", path),
		slog.String("kind", string(src.Kind())),
		slog.Int("entries", len(doc.Log.Entries)),
		slog.Int("pages", len(doc.Log.Pages)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return doc, nil
}

// ConvertSource builds a HAR document from an already open source. The
// caller keeps ownership of src.
func (c *Converter) ConvertSource(src tracesource.Source) (*har.Document, error) {
	opts := LoadContextOptions(src)
	c.logger.Debug("context options",
		slog.String("browser", opts.BrowserName),
		slog.String("playwright_version", opts.PlaywrightVersion),
	)

	var bodies *cache.BodyCache
	if c.bodyCacheSize > 0 {
		var err error
		bodies, err = cache.NewBodyCache(c.bodyCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating body cache: %w", err)
		}
	}

	entries, err := extract.New(bodies, c.logger).Extract(src)
	if err != nil {
		return nil, err
	}

	if c.filter != nil {
		total := len(entries)
		entries, err = c.filter.Apply(entries)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", c.filter, err)
		}
		c.logger.Debug("filtered entries",
			slog.String("filter", c.filter.String()),
			slog.Int("kept", len(entries)),
			slog.Int("total", total),
		)
	}

	doc := har.New(c.creatorVersion, browserOf(opts))
	doc.Log.Entries = entries
	doc.Log.Pages = har.BuildPages(entries)
	return doc, nil
}

func browserOf(opts ContextOptions) har.Browser {
	b := har.Browser{Name: opts.BrowserName, Version: opts.PlaywrightVersion}
	if b.Name == "" {
		b.Name = UnknownBrowserName
	}
	if b.Version == "" {
		b.Version = UnknownBrowserVersion
	}
	return b
}
