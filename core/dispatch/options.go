package dispatch

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apikit/core/router"
)

// Option configures an API under construction. Options that cannot infer
// the application type from their arguments are instantiated explicitly,
// as in WithLogger[*App](log).
type Option[A any] func(*API[A])

// ErrorHandler encodes a dispatch error as a response. It is only invoked
// while the response is still unwritten, and never for cancelled requests.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error) error

// WithLogger sets the logger for the per-request summary lines and
// startup route listing.
func WithLogger[A any](log *slog.Logger) Option[A] {
	return func(a *API[A]) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithConfig replaces the default settings wholesale, typically with a
// Config loaded from the environment.
func WithConfig[A any](cfg Config) Option[A] {
	return func(a *API[A]) {
		if cfg.BodyLimit > 0 {
			a.cfg.BodyLimit = cfg.BodyLimit
		}
		if cfg.VersionHeader != "" {
			a.cfg.VersionHeader = cfg.VersionHeader
		}
		if cfg.RequestIDHeader != "" {
			a.cfg.RequestIDHeader = cfg.RequestIDHeader
		}
		a.cfg.TrustRequestID = cfg.TrustRequestID
	}
}

// WithBodyLimit sets the default request body ceiling in bytes.
func WithBodyLimit[A any](limit int64) Option[A] {
	return func(a *API[A]) {
		if limit > 0 {
			a.cfg.BodyLimit = limit
		}
	}
}

// WithVersionHeader renames the request header carrying the API version.
func WithVersionHeader[A any](name string) Option[A] {
	return func(a *API[A]) {
		if name != "" {
			a.cfg.VersionHeader = name
		}
	}
}

// WithRequestIDHeader renames the request id header.
func WithRequestIDHeader[A any](name string) Option[A] {
	return func(a *API[A]) {
		if name != "" {
			a.cfg.RequestIDHeader = name
		}
	}
}

// WithTrustedRequestID reuses a client-supplied request id when present.
// Enable only behind a proxy that assigns ids.
func WithTrustedRequestID[A any]() Option[A] {
	return func(a *API[A]) {
		a.cfg.TrustRequestID = true
	}
}

// WithErrorHandler replaces the default error encoder. The handler
// receives routing, extraction, handler, and recovered panic errors;
// panics satisfy the PanicError interface.
func WithErrorHandler[A any](fn ErrorHandler) Option[A] {
	return func(a *API[A]) {
		if fn != nil {
			a.errorHandler = fn
		}
	}
}

// routeConfig carries per-route settings collected from RouteOptions.
type routeConfig struct {
	operation string
	maxBody   int64
	versions  router.Versions
}

// RouteOption configures a single endpoint registration.
type RouteOption func(*routeConfig)

// WithOperation names the endpoint for logs and introspection.
func WithOperation(name string) RouteOption {
	return func(rc *routeConfig) {
		rc.operation = name
	}
}

// WithMaxBodyBytes overrides the body ceiling for this endpoint only.
func WithMaxBodyBytes(limit int64) RouteOption {
	return func(rc *routeConfig) {
		if limit > 0 {
			rc.maxBody = limit
		}
	}
}

// WithVersions restricts the endpoint to a version range. Distinct ranges
// may share a template and method as long as they do not overlap.
func WithVersions(v router.Versions) RouteOption {
	return func(rc *routeConfig) {
		rc.versions = v
	}
}
