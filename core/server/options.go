package server

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option configures server behavior. Options apply at construction and may
// also be applied to an idle server before Start.
type Option func(*Server)

// WithTLS serves HTTPS using the given TLS configuration. Certificates must
// be present in the config since no certificate files are loaded at start.
func WithTLS(config *tls.Config) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tlsConfig = config
	}
}

// WithLogger sets the logger for lifecycle events. A nil logger keeps the
// current one.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log == nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger = log
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.shutdown = timeout
	}
}

// WithReadTimeout bounds reading the full request, including the body.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.readTimeout = timeout
	}
}

// WithWriteTimeout bounds the time from the end of the request header
// read to the end of the response write. Set it above the longest
// expected handler duration. Hijacked connections clear their deadlines
// on upgrade and are not affected.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.writeTimeout = timeout
	}
}

// WithIdleTimeout bounds how long keep-alive connections stay open between
// requests.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.idleTimeout = timeout
	}
}

// WithMaxHeaderBytes caps the size of request headers, including the
// request line.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.maxHeaderBytes = n
	}
}
