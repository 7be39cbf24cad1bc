package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// WebsocketUpgrade validates the websocket upgrade handshake without
// reading the body. The connection itself is upgraded later, when the
// response is written. Exclusive because the upgraded connection owns the
// request stream.
type WebsocketUpgrade struct {
	// Key is the client's Sec-WebSocket-Key, populated on success.
	Key string
}

// Kind reports that a websocket upgrade takes over the connection.
func (*WebsocketUpgrade) Kind() Kind { return KindExclusive }

func (u *WebsocketUpgrade) Extract(ctx context.Context, src *Source) error {
	h := src.Request().Header

	if !headerHasToken(h, "Connection", "upgrade") {
		return fmt.Errorf("%w: expected connection upgrade", ErrNotWebsocket)
	}
	if !strings.EqualFold(h.Get("Upgrade"), "websocket") {
		return fmt.Errorf("%w: unexpected protocol for upgrade", ErrNotWebsocket)
	}
	if v := h.Get("Sec-WebSocket-Version"); v != "13" {
		return fmt.Errorf("%w: unexpected websocket version %q", ErrNotWebsocket, v)
	}
	key := h.Get("Sec-WebSocket-Key")
	if key == "" {
		return fmt.Errorf("%w: websocket key is required", ErrNotWebsocket)
	}

	u.Key = key
	return nil
}

// headerHasToken reports whether a comma-separated header value contains
// the token, case-insensitively.
func headerHasToken(h http.Header, name, token string) bool {
	for _, value := range h.Values(name) {
		for part := range strings.SplitSeq(value, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
