package extract

import "context"

// Header binds request header values into T using `header` struct tags.
// Names are matched canonically, so `header:"x-request-id"` finds
// "X-Request-Id". Fields without a tag bind to their lowercased name;
// `header:"-"` skips a field.
type Header[T any] struct {
	Value T
}

// Kind reports that header extraction leaves the body untouched.
func (*Header[T]) Kind() Kind { return KindShared }

func (h *Header[T]) Extract(ctx context.Context, src *Source) error {
	headers := src.Request().Header
	return bindStruct(&h.Value, "header", "header", func(name string) ([]string, bool) {
		vs := headers.Values(name)
		return vs, len(vs) > 0
	})
}
