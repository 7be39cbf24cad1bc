// Package response encodes handler results onto the wire. It provides JSON,
// text, raw, redirect, and no-content responses, a structured HTTP error
// model with status code mapping, and websocket channels that take over the
// connection at write time.
//
// # Response Values
//
// A Response is a deferred write: a function that receives the
// http.ResponseWriter and request when the engine is ready to respond.
// Handlers return plain values or Response closures and the engine calls
// Write to put them on the wire:
//
//	// A struct becomes a JSON 200.
//	func getUser() (User, error) {
//		return User{ID: 1, Name: "Ada"}, nil
//	}
//
//	// A Response controls the encoding itself.
//	func created(user User) response.Response {
//		return response.JSONWithStatus(user, http.StatusCreated)
//	}
//
//	// nil becomes 204 No Content.
//
// # Error Responses
//
// Errors are modeled as HTTPError values carrying a status, a stable machine
// code, and a human message. Predefined errors cover the common statuses and
// derive new values without mutating the originals:
//
//	return response.ErrNotFound.WithMessage("project not found")
//
//	return response.ErrBadRequest.WithDetails(map[string]any{
//		"field": "email",
//	})
//
// WriteError converts any error to an HTTPError and writes it as JSON.
// Errors that are not HTTPError values and carry no status become a generic
// 500 so internals never leak to clients.
//
// # Websocket Channels
//
// Channel upgrades the request when the response is written and hands the
// connection to a ChannelHandler. The handler's returned error is the
// channel's result: it travels on the websocket close frame because the
// HTTP exchange ended at the upgrade.
//
//	response.Channel(func(ctx context.Context, conn *websocket.Conn) error {
//		for {
//			msgType, data, err := conn.ReadMessage()
//			if err != nil {
//				return nil
//			}
//			if err := conn.WriteMessage(msgType, data); err != nil {
//				return err
//			}
//		}
//	}, response.WithChannelAnyOrigin())
//
// ChannelPipe bridges a connection to a pair of Go channels when the
// application prefers message passing over direct connection access.
package response
