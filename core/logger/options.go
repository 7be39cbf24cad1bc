package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Option configures the logger built by New.
type Option func(*config)

// WithLevel sets the minimum level the logger emits.
func WithLevel(level slog.Level) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// WithOutput redirects log output, most often to a buffer in tests.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.output = w
	}
}

// WithJSONFormatter selects JSON output.
func WithJSONFormatter() Option {
	return func(cfg *config) {
		cfg.format = formatJSON
	}
}

// WithTextFormatter selects human-readable key=value output.
func WithTextFormatter() Option {
	return func(cfg *config) {
		cfg.format = formatText
	}
}

// WithAttr attaches attributes to every record the logger emits.
func WithAttr(attrs ...slog.Attr) Option {
	return func(cfg *config) {
		cfg.attrs = append(cfg.attrs, attrs...)
	}
}

// WithHandlerOptions passes slog handler options through, for AddSource or
// a ReplaceAttr hook. A nil Level falls back to the level set by WithLevel
// or the environment preset.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(cfg *config) {
		cfg.handlerOpts = opts
	}
}

// WithDevelopment configures text output at debug level to stdout and tags
// every record with the app name.
func WithDevelopment(app string) Option {
	return func(cfg *config) {
		cfg.format = formatText
		cfg.level = slog.LevelDebug
		cfg.output = os.Stdout
		cfg.attrs = append(cfg.attrs, slog.String("app", app))
	}
}

// WithStaging configures JSON output at info level to stdout and tags every
// record with the app name.
func WithStaging(app string) Option {
	return func(cfg *config) {
		cfg.format = formatJSON
		cfg.level = slog.LevelInfo
		cfg.output = os.Stdout
		cfg.attrs = append(cfg.attrs, slog.String("app", app))
	}
}

// WithProduction configures JSON output at info level to stdout and tags
// every record with the app name.
func WithProduction(app string) Option {
	return func(cfg *config) {
		cfg.format = formatJSON
		cfg.level = slog.LevelInfo
		cfg.output = os.Stdout
		cfg.attrs = append(cfg.attrs, slog.String("app", app))
	}
}

// WithContextValue adds an extractor that logs the context value stored
// under ctxKey as attrKey whenever it is present.
func WithContextValue(attrKey string, ctxKey any) Option {
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(ctxKey); v != nil {
			return slog.Any(attrKey, v), true
		}
		return slog.Attr{}, false
	})
}

// WithContextExtractors adds custom extractors run on every record logged
// through the Context logging variants.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(cfg *config) {
		cfg.extractors = append(cfg.extractors, extractors...)
	}
}
