package response

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// closeGracePeriod bounds the close-frame write after a channel ends.
const closeGracePeriod = time.Second

// maxCloseReason is the longest reason a close frame can carry.
const maxCloseReason = 123

// ChannelHandler runs the application's side of an upgraded websocket. Its
// returned error is the channel's result: reported on the close frame, not
// as an HTTP response, because the HTTP exchange ended at the upgrade.
type ChannelHandler func(ctx context.Context, conn *websocket.Conn) error

type channelConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
	onError        func(context.Context, error)
}

// ChannelOption adjusts the upgrade parameters and lifecycle hooks of a
// Channel.
type ChannelOption func(*channelConfig)

// WithChannelReadBuffer sets the websocket read buffer size in bytes.
func WithChannelReadBuffer(size int) ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithChannelWriteBuffer sets the websocket write buffer size in bytes.
func WithChannelWriteBuffer(size int) ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithChannelHandshakeTimeout bounds the upgrade handshake.
func WithChannelHandshakeTimeout(timeout time.Duration) ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

// WithChannelOriginCheck installs a custom origin check for the upgrade.
func WithChannelOriginCheck(fn func(r *http.Request) bool) ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithChannelAnyOrigin disables the origin check.
func WithChannelAnyOrigin() ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// WithChannelSubprotocols advertises the server's supported subprotocols.
func WithChannelSubprotocols(protocols ...string) ChannelOption {
	return func(c *channelConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

// WithChannelResponseHeader adds headers to the upgrade response.
func WithChannelResponseHeader(header http.Header) ChannelOption {
	return func(c *channelConfig) {
		c.responseHeader = header
	}
}

// WithChannelOnConnect runs after a successful upgrade, before the handler.
// An error closes the connection without invoking the handler.
func WithChannelOnConnect(fn func(context.Context, *websocket.Conn) error) ChannelOption {
	return func(c *channelConfig) {
		c.onConnect = fn
	}
}

// WithChannelOnDisconnect runs after the connection closes.
func WithChannelOnDisconnect(fn func(context.Context, *websocket.Conn)) ChannelOption {
	return func(c *channelConfig) {
		c.onDisconnect = fn
	}
}

// WithChannelOnError observes upgrade and handler errors.
func WithChannelOnError(fn func(context.Context, error)) ChannelOption {
	return func(c *channelConfig) {
		c.onError = fn
	}
}

// Channel upgrades the request to a websocket and hands the connection to
// handler. The upgrade happens when the response is written, so the rest of
// the request lifecycle stays untouched until then. A handler error is sent
// on the close frame; an upgrade failure has already written its own HTTP
// response.
func Channel(handler ChannelHandler, opts ...ChannelOption) Response {
	cfg := &channelConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			if cfg.onError != nil {
				cfg.onError(r.Context(), err)
			}
			return nil
		}
		defer func() {
			_ = conn.Close()
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(r.Context(), conn)
			}
		}()

		ctx := r.Context()
		if cfg.onConnect != nil {
			if err := cfg.onConnect(ctx, conn); err != nil {
				if cfg.onError != nil {
					cfg.onError(ctx, err)
				}
				closeWith(conn, websocket.CloseInternalServerErr, err.Error())
				return nil
			}
		}

		if err := handler(ctx, conn); err != nil {
			if cfg.onError != nil {
				cfg.onError(ctx, err)
			}
			closeWith(conn, websocket.CloseInternalServerErr, err.Error())
			return nil
		}

		closeWith(conn, websocket.CloseNormalClosure, "")
		return nil
	}
}

// closeWith sends a best-effort close frame, truncating the reason to fit.
func closeWith(conn *websocket.Conn, code int, reason string) {
	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
	}
	deadline := time.Now().Add(closeGracePeriod)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}

// Message is one websocket frame moved through ChannelPipe.
type Message struct {
	Type int
	Data []byte
}

// ChannelPipe bridges a websocket to a pair of Go channels: frames read
// from the client arrive on incoming (closed when the read side ends), and
// frames sent to outgoing go to the client. Closing outgoing, or the client
// disconnecting, ends the channel normally.
func ChannelPipe(incoming chan<- Message, outgoing <-chan Message, opts ...ChannelOption) Response {
	return Channel(func(ctx context.Context, conn *websocket.Conn) error {
		done := make(chan struct{})
		go func() {
			defer close(incoming)
			defer close(done)
			for {
				msgType, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				select {
				case incoming <- Message{Type: msgType, Data: data}:
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return nil
			case msg, ok := <-outgoing:
				if !ok {
					return nil
				}
				if err := conn.WriteMessage(msg.Type, msg.Data); err != nil {
					return err
				}
			}
		}
	}, opts...)
}
