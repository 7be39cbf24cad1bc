package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type format int

const (
	formatJSON format = iota
	formatText
)

type config struct {
	level       slog.Level
	format      format
	output      io.Writer
	attrs       []slog.Attr
	extractors  []ContextExtractor
	handlerOpts *slog.HandlerOptions
}

// New builds a slog.Logger from the given options. Without options it logs
// JSON at info level to stdout. Environment presets (WithDevelopment,
// WithStaging, WithProduction) set format, level, and an app attribute in
// one call; later options override earlier ones.
func New(opts ...Option) *slog.Logger {
	cfg := config{
		level:  slog.LevelInfo,
		format: formatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var handlerOpts slog.HandlerOptions
	if cfg.handlerOpts != nil {
		handlerOpts = *cfg.handlerOpts
	}
	if handlerOpts.Level == nil {
		handlerOpts.Level = cfg.level
	}

	var handler slog.Handler
	switch cfg.format {
	case formatText:
		handler = slog.NewTextHandler(cfg.output, &handlerOpts)
	default:
		handler = slog.NewJSONHandler(cfg.output, &handlerOpts)
	}
	if len(cfg.extractors) > 0 {
		handler = &contextHandler{next: handler, extractors: cfg.extractors}
	}
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}
	return slog.New(handler)
}

// SetAsDefault installs log as the process-wide default used by the
// package-level slog functions.
func SetAsDefault(log *slog.Logger) {
	slog.SetDefault(log)
}

// ContextExtractor pulls an attribute out of a context at log time.
// The boolean reports whether the attribute should be added to the record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler decorates a handler so records logged through the Context
// variants pick up request-scoped attributes automatically.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
