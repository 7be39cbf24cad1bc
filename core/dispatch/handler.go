package dispatch

import (
	"context"
	"reflect"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/apikit/core/extract"
	"github.com/dmitrymomot/apikit/core/response"
)

// extractorPtr constrains *E to the Extractor interface, so handler
// signatures take extractor values while construction and extraction work
// through their pointer methods.
type extractorPtr[E any] interface {
	*E
	extract.Extractor
}

// Handler is the executable form of an endpoint: the declared extractor
// kinds, a descriptor of the handler's response type, and a type-erased
// invoker. Values are produced by the constructor functions below;
// the zero Handler is rejected at registration.
type Handler[A any] struct {
	kinds        []extract.Kind
	responseType reflect.Type

	// invoke runs extraction and then the handler. onHandling fires at
	// the boundary between the two, so the dispatcher can attribute time
	// and classify errors by stage.
	invoke func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error)
}

// kindOf reports the declared kind of an extractor type without a request.
func kindOf[E any, P extractorPtr[E]]() extract.Kind {
	var e E
	return P(&e).Kind()
}

// Handler0 adapts a handler that declares no extractors.
func Handler0[A, R any](fn func(ctx *Context[A]) (R, error)) Handler[A] {
	return Handler[A]{
		responseType: reflect.TypeFor[R](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			onHandling()
			res, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	}
}

// Handler1 adapts a handler with one extractor.
func Handler1[A, R, E1 any, P1 extractorPtr[E1]](fn func(ctx *Context[A], e1 E1) (R, error)) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[E1, P1]()},
		responseType: reflect.TypeFor[R](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var e1 E1
			if err := P1(&e1).Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			res, err := fn(ctx, e1)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	}
}

// Handler2 adapts a handler with two extractors, run in declaration order.
func Handler2[A, R, E1, E2 any, P1 extractorPtr[E1], P2 extractorPtr[E2]](fn func(ctx *Context[A], e1 E1, e2 E2) (R, error)) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[E1, P1](), kindOf[E2, P2]()},
		responseType: reflect.TypeFor[R](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var e1 E1
			if err := P1(&e1).Extract(ctx, src); err != nil {
				return nil, err
			}
			var e2 E2
			if err := P2(&e2).Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			res, err := fn(ctx, e1, e2)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	}
}

// Handler3 adapts a handler with three extractors, run in declaration order.
func Handler3[A, R, E1, E2, E3 any, P1 extractorPtr[E1], P2 extractorPtr[E2], P3 extractorPtr[E3]](fn func(ctx *Context[A], e1 E1, e2 E2, e3 E3) (R, error)) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[E1, P1](), kindOf[E2, P2](), kindOf[E3, P3]()},
		responseType: reflect.TypeFor[R](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var e1 E1
			if err := P1(&e1).Extract(ctx, src); err != nil {
				return nil, err
			}
			var e2 E2
			if err := P2(&e2).Extract(ctx, src); err != nil {
				return nil, err
			}
			var e3 E3
			if err := P3(&e3).Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			res, err := fn(ctx, e1, e2, e3)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	}
}

// channelResponse wraps a websocket handler as a Channel response bound to
// the request context.
func channelResponse[A any](ctx *Context[A], fn func(*Context[A], *websocket.Conn) error, opts []response.ChannelOption) response.Response {
	return response.Channel(func(_ context.Context, conn *websocket.Conn) error {
		return fn(ctx, conn)
	}, opts...)
}

// Channel0 adapts a websocket handler with no extractors. The upgrade
// handshake is validated through the extractor pipeline as a trailing
// exclusive extractor; the connection itself is upgraded when the response
// is written.
func Channel0[A any](fn func(ctx *Context[A], conn *websocket.Conn) error, opts ...response.ChannelOption) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[extract.WebsocketUpgrade]()},
		responseType: reflect.TypeFor[response.Response](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var upgrade extract.WebsocketUpgrade
			if err := upgrade.Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			return channelResponse(ctx, fn, opts), nil
		},
	}
}

// Channel1 adapts a websocket handler with one extractor, validated before
// the upgrade handshake.
func Channel1[A, E1 any, P1 extractorPtr[E1]](fn func(ctx *Context[A], e1 E1, conn *websocket.Conn) error, opts ...response.ChannelOption) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[E1, P1](), kindOf[extract.WebsocketUpgrade]()},
		responseType: reflect.TypeFor[response.Response](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var e1 E1
			if err := P1(&e1).Extract(ctx, src); err != nil {
				return nil, err
			}
			var upgrade extract.WebsocketUpgrade
			if err := upgrade.Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			return channelResponse(ctx, func(ctx *Context[A], conn *websocket.Conn) error {
				return fn(ctx, e1, conn)
			}, opts), nil
		},
	}
}

// Channel2 adapts a websocket handler with two extractors, validated before
// the upgrade handshake.
func Channel2[A, E1, E2 any, P1 extractorPtr[E1], P2 extractorPtr[E2]](fn func(ctx *Context[A], e1 E1, e2 E2, conn *websocket.Conn) error, opts ...response.ChannelOption) Handler[A] {
	return Handler[A]{
		kinds:        []extract.Kind{kindOf[E1, P1](), kindOf[E2, P2](), kindOf[extract.WebsocketUpgrade]()},
		responseType: reflect.TypeFor[response.Response](),
		invoke: func(ctx *Context[A], src *extract.Source, onHandling func()) (any, error) {
			var e1 E1
			if err := P1(&e1).Extract(ctx, src); err != nil {
				return nil, err
			}
			var e2 E2
			if err := P2(&e2).Extract(ctx, src); err != nil {
				return nil, err
			}
			var upgrade extract.WebsocketUpgrade
			if err := upgrade.Extract(ctx, src); err != nil {
				return nil, err
			}
			onHandling()
			return channelResponse(ctx, func(ctx *Context[A], conn *websocket.Conn) error {
				return fn(ctx, e1, e2, conn)
			}, opts), nil
		},
	}
}
