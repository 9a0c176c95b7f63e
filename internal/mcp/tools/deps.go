package tools

import (
	"log/slog"

	"github.com/usestring/trace-har/internal/config"
	"github.com/usestring/trace-har/internal/filter"
	"github.com/usestring/trace-har/internal/harschema"
	"github.com/usestring/trace-har/pkg/converter"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config    *config.Config
	Validator *harschema.Validator
	Logger    *slog.Logger
}

// Converter builds a converter configured from d, narrowed by an optional
// jq filter expression.
func (d *Deps) Converter(filterExpr string) (*converter.Converter, error) {
	opts := []converter.Option{
		converter.WithBodyCacheSize(d.Config.BodyCacheMaxItems),
		converter.WithLogger(d.logger()),
	}
	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return nil, ErrInvalidInput(err.Error())
		}
		opts = append(opts, converter.WithEntryFilter(f))
	}
	return converter.New(opts...), nil
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
