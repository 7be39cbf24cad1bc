package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/apikit/core/extract"
	"github.com/dmitrymomot/apikit/core/logger"
	"github.com/dmitrymomot/apikit/core/response"
	"github.com/dmitrymomot/apikit/core/router"
)

// endpoint is the per-route payload stored in the table.
type endpoint[A any] struct {
	method    string
	template  string
	operation string
	handler   Handler[A]
	maxBody   int64
	versions  router.Versions
}

// RouteInfo describes one registered endpoint for startup logging and
// introspection.
type RouteInfo struct {
	Method    string
	Template  string
	Operation string
	Versions  router.Versions
	Response  string
}

// API accumulates endpoint registrations for an application value of type
// A, then Build validates the whole set and produces the Dispatcher.
// Registration problems are collected rather than returned per call, so a
// route file reads as a flat list and every defect still surfaces before
// the server starts.
type API[A any] struct {
	app          A
	cfg          Config
	logger       *slog.Logger
	errorHandler ErrorHandler
	table        *router.Table[*endpoint[A]]
	routes       []RouteInfo
	errs         []error
	built        bool
}

// New starts an empty API around the shared application value. The value
// is handed to every handler through Context.App.
func New[A any](app A, opts ...Option[A]) *API[A] {
	a := &API[A]{
		app:          app,
		cfg:          defaultConfig(),
		logger:       slog.Default(),
		errorHandler: response.WriteError,
		table:        router.NewTable[*endpoint[A]](),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle registers handler for an arbitrary method and route template.
func (a *API[A]) Handle(method, path string, h Handler[A], opts ...RouteOption) {
	method = strings.ToUpper(strings.TrimSpace(method))

	if a.built {
		a.errs = append(a.errs, fmt.Errorf("%w: %s %s", ErrAlreadyBuilt, method, path))
		return
	}
	if h.invoke == nil {
		a.errs = append(a.errs, fmt.Errorf("%w: %s %s", ErrNilHandler, method, path))
		return
	}
	if err := extract.ValidateOrder(h.kinds); err != nil {
		a.errs = append(a.errs, fmt.Errorf("%w: %s %s: %v", ErrInvalidExtractorOrder, method, path, err))
		return
	}

	rc := routeConfig{versions: router.AllVersions()}
	for _, opt := range opts {
		opt(&rc)
	}

	ep := &endpoint[A]{
		method:    method,
		template:  path,
		operation: rc.operation,
		handler:   h,
		maxBody:   rc.maxBody,
		versions:  rc.versions,
	}
	if err := a.table.Insert(method, path, rc.versions, ep); err != nil {
		a.errs = append(a.errs, err)
		return
	}

	a.routes = append(a.routes, RouteInfo{
		Method:    method,
		Template:  path,
		Operation: rc.operation,
		Versions:  rc.versions,
		Response:  h.responseType.String(),
	})
}

// Get registers handler for GET requests.
func (a *API[A]) Get(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodGet, path, h, opts...)
}

// Post registers handler for POST requests.
func (a *API[A]) Post(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodPost, path, h, opts...)
}

// Put registers handler for PUT requests.
func (a *API[A]) Put(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodPut, path, h, opts...)
}

// Delete registers handler for DELETE requests.
func (a *API[A]) Delete(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodDelete, path, h, opts...)
}

// Patch registers handler for PATCH requests.
func (a *API[A]) Patch(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodPatch, path, h, opts...)
}

// Head registers handler for HEAD requests.
func (a *API[A]) Head(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodHead, path, h, opts...)
}

// Options registers handler for OPTIONS requests.
func (a *API[A]) Options(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodOptions, path, h, opts...)
}

// Connect registers handler for CONNECT requests.
func (a *API[A]) Connect(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodConnect, path, h, opts...)
}

// Trace registers handler for TRACE requests.
func (a *API[A]) Trace(path string, h Handler[A], opts ...RouteOption) {
	a.Handle(http.MethodTrace, path, h, opts...)
}

// Build validates the accumulated registrations and produces an immutable
// Dispatcher. All registration errors come back joined; a dispatcher is
// only returned when the table is fully consistent.
func (a *API[A]) Build() (*Dispatcher[A], error) {
	a.built = true
	if len(a.errs) > 0 {
		return nil, errors.Join(a.errs...)
	}

	d := &Dispatcher[A]{
		app:          a.app,
		cfg:          a.cfg,
		logger:       a.logger,
		errorHandler: a.errorHandler,
		table:        a.table,
		routes:       a.routes,
	}

	ctx := context.Background()
	d.logger.LogAttrs(ctx, slog.LevelInfo, "api built",
		logger.Component("dispatch"),
		logger.Count("routes", len(d.routes)))
	for _, rt := range d.routes {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "route registered",
			logger.Component("dispatch"),
			logger.Method(rt.Method),
			logger.Path(rt.Template),
			logger.Operation(rt.Operation),
			logger.Version(rt.Versions.String()),
			slog.String("response", rt.Response))
	}

	return d, nil
}

// MustBuild is Build that panics on registration errors. Meant for route
// tables assembled entirely from literals at startup.
func (a *API[A]) MustBuild() *Dispatcher[A] {
	d, err := a.Build()
	if err != nil {
		panic(err)
	}
	return d
}
