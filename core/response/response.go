package response

import (
	"encoding/json"
	"net/http"
)

// Response writes itself to the client. Handlers either return one directly
// for full control over status and headers, or return a plain value that
// Write serializes as JSON.
type Response func(w http.ResponseWriter, r *http.Request) error

// Write encodes a handler result: nil writes 204 No Content, a Response
// runs as-is, and any other value serializes as JSON with 200 OK.
func Write(w http.ResponseWriter, r *http.Request, result any) error {
	switch v := result.(type) {
	case nil:
		return NoContent()(w, r)
	case Response:
		if v == nil {
			return NoContent()(w, r)
		}
		return v(w, r)
	case func(http.ResponseWriter, *http.Request) error:
		if v == nil {
			return NoContent()(w, r)
		}
		return v(w, r)
	default:
		return JSON(result)(w, r)
	}
}

// JSON creates an application/json response with 200 OK status. Encoding
// streams directly to the response writer.
func JSON(v any) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return json.NewEncoder(w).Encode(v)
	}
}

// JSONWithStatus creates an application/json response with a custom status
// code. A zero status resolves to 204 for nil data and 200 otherwise; 204
// and 304 never carry a body.
func JSONWithStatus(v any, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if content != "" {
			_, err := w.Write([]byte(content))
			return err
		}
		return nil
	}
}

// Raw creates a response with a custom content type and 200 OK status.
func Raw(contentType string, data []byte) Response {
	return RawWithStatus(contentType, data, http.StatusOK)
}

// RawWithStatus creates a response with a custom content type and status
// code.
func RawWithStatus(contentType string, data []byte, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(data) > 0 {
			_, err := w.Write(data)
			return err
		}
		return nil
	}
}

// NoContent creates a 204 No Content response.
func NoContent() Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// Status creates an empty response with the given status code.
func Status(code int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// Redirect creates a redirect response. A status outside the 3xx range
// falls back to 302 Found.
func Redirect(url string, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
