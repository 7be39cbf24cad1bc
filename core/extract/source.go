package extract

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/apikit/core/router"
)

// DefaultBodyLimit bounds request bodies when no explicit limit is
// configured.
const DefaultBodyLimit int64 = 1024

// Source is the per-request raw material extractors draw from: the request
// itself, the matched path parameters, and a single-take body guarded by a
// byte ceiling.
type Source struct {
	req    *http.Request
	params router.Params
	limit  int64
	body   *limitReader
	taken  bool
}

// NewSource wraps a request for extraction. A non-positive bodyLimit falls
// back to DefaultBodyLimit.
func NewSource(r *http.Request, params router.Params, bodyLimit int64) *Source {
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}
	return &Source{req: r, params: params, limit: bodyLimit}
}

// Request returns the underlying request.
func (s *Source) Request() *http.Request { return s.req }

// Params returns the matched path parameters in declaration order.
func (s *Source) Params() router.Params { return s.params }

// BodyLimit returns the byte ceiling applied to the request body.
func (s *Source) BodyLimit() int64 { return s.limit }

// TakeBody returns the request body wrapped with the byte ceiling. The body
// can be taken exactly once; a second take fails with ErrBodyConsumed. A
// declared Content-Length above the ceiling fails immediately without
// reading anything.
func (s *Source) TakeBody() (io.ReadCloser, error) {
	if s.taken {
		return nil, ErrBodyConsumed
	}
	s.taken = true

	if cl := s.req.ContentLength; cl > s.limit {
		return nil, fmt.Errorf("%w: content length %d exceeds limit of %d bytes", ErrPayloadTooLarge, cl, s.limit)
	}

	body := s.req.Body
	if body == nil {
		body = http.NoBody
	}
	s.body = &limitReader{reader: body, remaining: s.limit, limit: s.limit}
	return s.body, nil
}

// ReadBody takes the body and buffers it fully, up to the ceiling.
func (s *Source) ReadBody() ([]byte, error) {
	body, err := s.TakeBody()
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// BodyExceeded reports whether the ceiling tripped while reading. Parsers
// that wrap read errors beyond recognition check this after the fact.
func (s *Source) BodyExceeded() bool {
	return s.body != nil && s.body.tripped
}

// limitReader enforces the body ceiling without buffering the excess. A
// body of exactly the limit reads cleanly to EOF; one more byte trips it.
type limitReader struct {
	reader    io.ReadCloser
	remaining int64
	limit     int64
	tripped   bool
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.tripped {
		return 0, fmt.Errorf("%w: limit of %d bytes exceeded", ErrPayloadTooLarge, l.limit)
	}
	if l.remaining <= 0 {
		// Probe one byte to tell an exactly-at-limit body from an
		// oversized one.
		var probe [1]byte
		n, err := l.reader.Read(probe[:])
		if n > 0 {
			l.tripped = true
			return 0, fmt.Errorf("%w: limit of %d bytes exceeded", ErrPayloadTooLarge, l.limit)
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.reader.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitReader) Close() error { return l.reader.Close() }
