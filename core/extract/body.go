package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// TypedBody decodes a JSON request body into T. The decoder runs in strict
// mode: unknown fields and trailing data are rejected. A missing
// Content-Type is treated as application/json; any other media type fails.
type TypedBody[T any] struct {
	Value T
}

// Kind reports that typed-body extraction consumes the request body.
func (*TypedBody[T]) Kind() Kind { return KindExclusive }

func (b *TypedBody[T]) Extract(ctx context.Context, src *Source) error {
	// Skip the body read entirely for requests that are already doomed.
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrExtraction, ctx.Err())
	default:
	}

	if ct := src.Request().Header.Get("Content-Type"); ct != "" {
		if mt := mediaType(ct); mt != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mt)
		}
	}

	data, err := src.ReadBody()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b.Value); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: body: empty body", ErrExtraction)
		}
		return fmt.Errorf("%w: body: %v", ErrExtraction, err)
	}

	// A valid JSON value followed by anything but EOF means smuggled
	// trailing data.
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body: unexpected data after JSON value", ErrExtraction)
	}

	sanitizeValue(reflect.ValueOf(&b.Value).Elem())
	return nil
}

// UntypedBody captures the raw request body up to the byte ceiling.
type UntypedBody struct {
	Data []byte
}

// Kind reports that raw-body extraction consumes the request body.
func (*UntypedBody) Kind() Kind { return KindExclusive }

func (b *UntypedBody) Extract(ctx context.Context, src *Source) error {
	data, err := src.ReadBody()
	if err != nil {
		return err
	}
	b.Data = data
	return nil
}

// Text returns the body as a string.
func (b *UntypedBody) Text() string { return string(b.Data) }

// mediaType strips parameters like charset from a Content-Type value.
func mediaType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

// sanitizeValue walks a decoded value and scrubs every reachable string
// through sanitizeString.
func sanitizeValue(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(sanitizeString(rv.String()))
		}

	case reflect.Struct:
		for i := range rv.NumField() {
			sanitizeValue(rv.Field(i))
		}

	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			sanitizeValue(rv.Index(i))
		}

	case reflect.Map:
		// Map values cannot be scrubbed in place; replace string values
		// wholesale and leave deeper shapes as decoded.
		elem := rv.Type().Elem()
		if elem.Kind() == reflect.String {
			for _, key := range rv.MapKeys() {
				clean := sanitizeString(rv.MapIndex(key).String())
				rv.SetMapIndex(key, reflect.ValueOf(clean).Convert(elem))
			}
		}

	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			sanitizeValue(rv.Elem())
		}
	}
}
