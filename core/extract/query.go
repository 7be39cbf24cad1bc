package extract

import "context"

// Query binds URL query parameters into T using `query` struct tags. Fields
// without a tag bind to their lowercased name; `query:"-"` skips a field.
// Repeated parameters and comma-separated values both fill slices.
type Query[T any] struct {
	Value T
}

// Kind reports that query extraction leaves the body untouched.
func (*Query[T]) Kind() Kind { return KindShared }

func (q *Query[T]) Extract(ctx context.Context, src *Source) error {
	values := src.Request().URL.Query()
	return bindStruct(&q.Value, "query", "query parameter", func(name string) ([]string, bool) {
		vs, ok := values[name]
		return vs, ok
	})
}
