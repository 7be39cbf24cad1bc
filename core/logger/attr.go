package logger

import (
	"log/slog"
	"runtime"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit
// nil checks, following the principle of making zero values useful.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Performance and Timing
// ============================================================================

// Duration creates an attribute for a duration under a custom key.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Latency creates an attribute for total request latency.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Request Identity and Routing
// ============================================================================

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Template creates an attribute for the matched route template.
// Returns empty Attr when no template matched.
func Template(template string) slog.Attr {
	if template == "" {
		return slog.Attr{}
	}
	return slog.String("template", template)
}

// Operation creates an attribute for the endpoint's operation name.
func Operation(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("operation", name)
}

// Version creates an attribute for the requested API version.
func Version(v string) slog.Attr {
	if v == "" {
		return slog.Attr{}
	}
	return slog.String("version", v)
}

// Status creates an attribute for HTTP status codes.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Stage creates an attribute for the request lifecycle stage reached.
func Stage(stage string) slog.Attr {
	return slog.String("stage", stage)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Stack captures and returns the current stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
