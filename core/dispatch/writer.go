package dispatch

import (
	"bufio"
	"net"
	"net/http"
)

// responseWriter tracks whether the response has begun so the dispatcher
// can guarantee at most one response per request: once a status line is
// out, error encoding downgrades to logging.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func wrapWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader forwards the first status line and swallows the rest.
func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

// Write sends an implicit 200 if no status line has been written yet.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written reports whether the status line has gone out, by an explicit
// WriteHeader, a body write, or a hijack.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the status sent to the client, or zero when the response
// has not begun.
func (w *responseWriter) Status() int {
	return w.status
}

// Flush forwards to the underlying writer when it supports streaming.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack hands the connection to a websocket upgrade. The response is
// marked written with the switching-protocols status: from here on the
// upgrade handshake owns the wire and the dispatcher must not touch it.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	conn, rw, err := hj.Hijack()
	if err == nil {
		w.status = http.StatusSwitchingProtocols
		w.written = true
	}
	return conn, rw, err
}

// Unwrap supports http.ResponseController lookups through the wrapper.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
