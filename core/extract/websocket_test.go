package extract_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/core/extract"
	"github.com/dmitrymomot/apikit/core/router"
)

func upgradeRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "keep-alive, Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestWebsocketUpgradeAcceptsHandshake(t *testing.T) {
	t.Parallel()

	src := extract.NewSource(upgradeRequest(t), router.Params{}, 0)

	var u extract.WebsocketUpgrade
	require.NoError(t, u.Extract(context.Background(), src))
	assert.Equal(t, "dGhlIHNhbXBsZSBub25jZQ==", u.Key)
}

func TestWebsocketUpgradeRejectsBadHandshakes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mangle func(h http.Header)
	}{
		{"no connection upgrade", func(h http.Header) { h.Set("Connection", "keep-alive") }},
		{"wrong protocol", func(h http.Header) { h.Set("Upgrade", "h2c") }},
		{"wrong version", func(h http.Header) { h.Set("Sec-WebSocket-Version", "8") }},
		{"missing key", func(h http.Header) { h.Del("Sec-WebSocket-Key") }},
		{"plain request", func(h http.Header) {
			h.Del("Connection")
			h.Del("Upgrade")
			h.Del("Sec-WebSocket-Version")
			h.Del("Sec-WebSocket-Key")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := upgradeRequest(t)
			tt.mangle(req.Header)
			src := extract.NewSource(req, router.Params{}, 0)

			var u extract.WebsocketUpgrade
			err := u.Extract(context.Background(), src)
			assert.ErrorIs(t, err, extract.ErrNotWebsocket)
			assert.ErrorIs(t, err, extract.ErrExtraction)
		})
	}
}
