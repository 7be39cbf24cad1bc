package extract

import (
	"errors"
	"fmt"
)

// Error variables define extraction failures surfaced while pulling typed
// values out of a request, plus the registration-time ordering violations.
var (
	// ErrExtraction classifies every runtime extractor failure. Specific
	// failures wrap it with the failing location, for example
	// `query parameter "page"` or `body`.
	ErrExtraction = errors.New("request extraction failed")

	// ErrPayloadTooLarge indicates the request body crossed the byte
	// ceiling, either up front via Content-Length or mid-read.
	ErrPayloadTooLarge = errors.New("request body too large")

	// ErrBodyConsumed indicates a second attempt to take the single-take
	// request body.
	ErrBodyConsumed = errors.New("request body already consumed")

	// ErrMissingContentType indicates the request lacks a Content-Type
	// header when one is required for parsing.
	ErrMissingContentType = fmt.Errorf("%w: missing content type", ErrExtraction)

	// ErrUnsupportedMediaType indicates the Content-Type header names a
	// media type the extractor cannot parse.
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrExtraction)

	// ErrNotWebsocket indicates the request is not a valid websocket
	// upgrade handshake.
	ErrNotWebsocket = fmt.Errorf("%w: not a websocket upgrade", ErrExtraction)

	// ErrExclusiveNotLast indicates an endpoint declares an exclusive
	// extractor before the end of its extractor list.
	ErrExclusiveNotLast = errors.New("exclusive extractor must be last")

	// ErrMultipleExclusive indicates an endpoint declares more than one
	// exclusive extractor.
	ErrMultipleExclusive = errors.New("multiple exclusive extractors")
)
