package dispatch

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/apikit/core/router"
)

// Context carries per-request state into handlers: the request itself, the
// matched path parameters, the assigned request id, and the shared
// application value. It is a context.Context scoped to the request, so it
// is done when the client disconnects or a deadline passes.
type Context[A any] struct {
	context.Context

	r         *http.Request
	params    router.Params
	requestID string
	app       A
}

// Request returns the underlying request. Its body belongs to the
// extractor pipeline; handlers that need it declare a body extractor
// instead of reading here.
func (c *Context[A]) Request() *http.Request { return c.r }

// Param returns the named path parameter, or "" when the matched template
// does not declare it.
func (c *Context[A]) Param(name string) string { return c.params.Get(name) }

// Params returns the matched path parameters in declaration order.
func (c *Context[A]) Params() router.Params { return c.params }

// RequestID returns the id assigned to this request. It is also sent back
// to the client in the request id response header.
func (c *Context[A]) RequestID() string { return c.requestID }

// App returns the shared application value the API was constructed with.
func (c *Context[A]) App() A { return c.app }
