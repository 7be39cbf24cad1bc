package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/dmitrymomot/apikit/core/extract"
	"github.com/dmitrymomot/apikit/core/logger"
	"github.com/dmitrymomot/apikit/core/response"
	"github.com/dmitrymomot/apikit/core/router"
)

// Outcome labels for the request summary line, named after the stage the
// request ended in.
const (
	outcomeCompleted        = "completed"
	outcomeBadPath          = "bad_path"
	outcomeBadVersion       = "bad_version"
	outcomeNotFound         = "not_found"
	outcomeMethodNotAllowed = "method_not_allowed"
	outcomeExtractionFailed = "extraction_failed"
	outcomePayloadTooLarge  = "payload_too_large"
	outcomeHandlerError     = "handler_error"
	outcomeCancelled        = "cancelled"
	outcomePanic            = "panic"
)

// Dispatcher routes requests, runs the extractor pipeline, executes the
// handler, and encodes the result. It is immutable after Build and safe
// for concurrent use; every request gets its own state on its own
// goroutine.
type Dispatcher[A any] struct {
	app          A
	cfg          Config
	logger       *slog.Logger
	errorHandler ErrorHandler
	table        *router.Table[*endpoint[A]]
	routes       []RouteInfo
}

// Routes lists the registered endpoints in registration order.
func (d *Dispatcher[A]) Routes() []RouteInfo {
	out := make([]RouteInfo, len(d.routes))
	copy(out, d.routes)
	return out
}

// stopwatch laps per-stage durations off a single baseline.
type stopwatch struct {
	start time.Time
	mark  time.Time
}

func newStopwatch() *stopwatch {
	now := time.Now()
	return &stopwatch{start: now, mark: now}
}

func (s *stopwatch) lap() time.Duration {
	now := time.Now()
	d := now.Sub(s.mark)
	s.mark = now
	return d
}

func (s *stopwatch) total() time.Duration {
	return time.Since(s.start)
}

// requestLog accumulates the summary line as dispatch progresses. The
// deferred logger reads it after the panic guard has had its say.
type requestLog struct {
	id        string
	template  string
	operation string
	version   string
	outcome   string
	err       error

	route    time.Duration
	extract  time.Duration
	handle   time.Duration
	response time.Duration
}

// ServeHTTP drives one request through routing, extraction, handling, and
// response encoding. Exactly one response is written per request, except
// for cancelled requests, which get none.
func (d *Dispatcher[A]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := wrapWriter(w)
	watch := newStopwatch()
	rec := &requestLog{id: d.requestID(r), outcome: outcomeCompleted}

	ww.Header().Set(d.cfg.RequestIDHeader, rec.id)

	defer d.logRequest(r, ww, watch, rec)
	defer d.recoverPanic(ww, r, rec)

	version, err := d.requestVersion(r)
	if err != nil {
		rec.route = watch.lap()
		rec.outcome = outcomeBadVersion
		rec.err = err
		d.encodeError(ww, r, response.ErrBadRequest.WithMessage(err.Error()))
		return
	}
	if version != nil {
		rec.version = version.String()
	}

	// Match on the raw path so percent-encoded slashes stay inside their
	// segment.
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}

	match, err := d.table.Lookup(r.Method, path, version)
	rec.route = watch.lap()
	if err != nil {
		d.failRouting(ww, r, rec, err)
		return
	}

	ep := match.Handler
	rec.template = match.Template
	rec.operation = ep.operation

	ctx := &Context[A]{
		Context:   r.Context(),
		r:         r,
		params:    match.Params,
		requestID: rec.id,
		app:       d.app,
	}

	limit := d.cfg.BodyLimit
	if ep.maxBody > 0 {
		limit = ep.maxBody
	}
	src := extract.NewSource(r, match.Params, limit)

	// The boundary callback splits extraction time from handler time and
	// flips error classification between the two stages.
	handling := false
	result, err := ep.handler.invoke(ctx, src, func() {
		rec.extract = watch.lap()
		handling = true
	})
	if handling {
		rec.handle = watch.lap()
	} else {
		rec.extract = watch.lap()
	}

	// A dead client gets no response at all: encoding into a closed
	// connection would only manufacture a phantom status for the logs.
	if r.Context().Err() != nil {
		rec.outcome = outcomeCancelled
		rec.err = err
		if rec.err == nil {
			rec.err = r.Context().Err()
		}
		return
	}

	if err != nil {
		if handling {
			rec.outcome = outcomeHandlerError
			rec.err = err
			d.encodeError(ww, r, err)
		} else {
			d.failExtraction(ww, r, rec, err)
		}
		return
	}

	if err := response.Write(ww, r, result); err != nil {
		rec.response = watch.lap()
		rec.outcome = outcomeHandlerError
		rec.err = err
		d.encodeError(ww, r, err)
		return
	}
	rec.response = watch.lap()
}

// requestID returns the id for this request: the client's own when
// passthrough is enabled and present, otherwise a fresh time-ordered
// UUID.
func (d *Dispatcher[A]) requestID(r *http.Request) string {
	if d.cfg.TrustRequestID {
		if id := r.Header.Get(d.cfg.RequestIDHeader); id != "" {
			return id
		}
	}
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

// requestVersion parses the version header. Unversioned tables ignore the
// header entirely; on versioned ones a malformed value is the client's
// error.
func (d *Dispatcher[A]) requestVersion(r *http.Request) (*semver.Version, error) {
	if !d.table.HasVersionedRoutes() {
		return nil, nil
	}
	raw := r.Header.Get(d.cfg.VersionHeader)
	if raw == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s header %q: %v", d.cfg.VersionHeader, raw, err)
	}
	return v, nil
}

// failRouting maps a lookup failure to its status: undecodable paths are
// the client's fault, a method mismatch advertises the alternatives, and
// everything else is a plain 404.
func (d *Dispatcher[A]) failRouting(ww *responseWriter, r *http.Request, rec *requestLog, err error) {
	rec.err = err

	var mna *router.MethodNotAllowedError
	switch {
	case errors.Is(err, router.ErrInvalidPath):
		rec.outcome = outcomeBadPath
		d.encodeError(ww, r, response.ErrBadRequest.WithMessage(err.Error()))
	case errors.As(err, &mna):
		rec.outcome = outcomeMethodNotAllowed
		ww.Header().Set("Allow", strings.Join(mna.Allow, ", "))
		d.encodeError(ww, r, response.ErrMethodNotAllowed)
	default:
		rec.outcome = outcomeNotFound
		d.encodeError(ww, r, response.ErrNotFound)
	}
}

// failExtraction maps a pipeline failure: the body ceiling has its own
// status, every other extraction problem is a 400 with the extractor's
// message.
func (d *Dispatcher[A]) failExtraction(ww *responseWriter, r *http.Request, rec *requestLog, err error) {
	rec.err = err
	if errors.Is(err, extract.ErrPayloadTooLarge) {
		rec.outcome = outcomePayloadTooLarge
		d.encodeError(ww, r, response.ErrRequestEntityTooLarge.WithMessage(err.Error()))
		return
	}
	rec.outcome = outcomeExtractionFailed
	d.encodeError(ww, r, response.ErrBadRequest.WithMessage(err.Error()))
}

// encodeError writes an error response unless one is already on the wire.
func (d *Dispatcher[A]) encodeError(ww *responseWriter, r *http.Request, err error) {
	if ww.Written() {
		return
	}
	if encErr := d.errorHandler(ww, r, err); encErr != nil {
		d.logger.LogAttrs(r.Context(), slog.LevelError, "error response failed",
			logger.Component("dispatch"),
			logger.Error(encErr))
	}
}

// recoverPanic turns a handler panic into a 500 while the response is
// still unwritten; afterwards it can only log. http.ErrAbortHandler
// passes through so the server tears the connection down quietly.
func (d *Dispatcher[A]) recoverPanic(ww *responseWriter, r *http.Request, rec *requestLog) {
	rv := recover()
	if rv == nil {
		return
	}
	if rv == http.ErrAbortHandler {
		panic(rv)
	}

	perr := &panicError{value: rv, stack: debug.Stack()}
	rec.outcome = outcomePanic
	rec.err = perr

	d.logger.LogAttrs(r.Context(), slog.LevelError, "handler panic",
		logger.Component("dispatch"),
		logger.RequestID(rec.id),
		logger.Error(perr),
		logger.Stack())

	d.encodeError(ww, r, perr)
}

// logRequest emits the one summary line every request gets. Server faults
// log as errors, client faults as warnings, cancellations at debug.
func (d *Dispatcher[A]) logRequest(r *http.Request, ww *responseWriter, watch *stopwatch, rec *requestLog) {
	level := slog.LevelInfo
	msg := "request completed"
	switch {
	case rec.outcome == outcomeCancelled:
		level = slog.LevelDebug
		msg = "request cancelled"
	case ww.Status() >= http.StatusInternalServerError:
		level = slog.LevelError
		msg = "request failed"
	case ww.Status() >= http.StatusBadRequest:
		level = slog.LevelWarn
		msg = "request rejected"
	}

	attrs := make([]slog.Attr, 0, 12)
	attrs = append(attrs,
		logger.RequestID(rec.id),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Template(rec.template),
		logger.Operation(rec.operation),
		logger.Version(rec.version),
		logger.Status(ww.Status()),
		logger.Stage(rec.outcome),
		logger.Group("timings",
			logger.Duration("route", rec.route),
			logger.Duration("extract", rec.extract),
			logger.Duration("handle", rec.handle),
			logger.Duration("response", rec.response)),
		logger.Latency(watch.total()))
	if rec.err != nil {
		attrs = append(attrs, logger.Error(rec.err))
	}

	d.logger.LogAttrs(r.Context(), level, msg, attrs...)
}
