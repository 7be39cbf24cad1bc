package dispatch

import "github.com/dmitrymomot/apikit/core/extract"

// Config carries the dispatcher settings that commonly come from the
// environment. Load it with core/config and pass it through WithConfig,
// or skip it entirely and rely on the defaults.
type Config struct {
	// BodyLimit is the default request body ceiling in bytes. Routes can
	// override it with WithMaxBodyBytes.
	BodyLimit int64 `env:"DISPATCH_BODY_LIMIT" envDefault:"1024"`

	// VersionHeader names the request header carrying the client's API
	// version. It is only consulted when versioned routes exist.
	VersionHeader string `env:"DISPATCH_VERSION_HEADER" envDefault:"api-version"`

	// RequestIDHeader names the response header carrying the request id,
	// and the request header consulted when TrustRequestID is set.
	RequestIDHeader string `env:"DISPATCH_REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	// TrustRequestID reuses a client-supplied request id instead of
	// generating one. Off unless requests arrive through a proxy that
	// assigns ids.
	TrustRequestID bool `env:"DISPATCH_TRUST_REQUEST_ID" envDefault:"false"`
}

// defaultConfig mirrors the envDefault values for APIs built without an
// explicit Config.
func defaultConfig() Config {
	return Config{
		BodyLimit:       extract.DefaultBodyLimit,
		VersionHeader:   "api-version",
		RequestIDHeader: "X-Request-ID",
	}
}
