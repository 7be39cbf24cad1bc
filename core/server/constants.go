package server

import "time"

// Defaults applied by New and mirrored by DefaultConfig.
const (
	// DefaultReadTimeout bounds reading the full request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds writing the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout bounds idle keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown in Stop.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes caps request header size.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
