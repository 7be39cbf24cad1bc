package extract

import (
	"context"
	"fmt"
	"reflect"
)

// Path binds matched path parameters into T using `path` struct tags.
// Fields without a tag bind to their lowercased name; `path:"-"` skips a
// field. A wildcard capture binds to a string as the joined remainder, or
// to a string slice as its individual components. Parameters the route
// never captured leave their fields at the zero value.
type Path[T any] struct {
	Value T
}

// Kind reports that path extraction leaves the body untouched.
func (*Path[T]) Kind() Kind { return KindShared }

func (p *Path[T]) Extract(ctx context.Context, src *Source) error {
	rv := reflect.ValueOf(&p.Value).Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: path target must be a struct", ErrExtraction)
	}

	params := src.Params()
	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		name, skip := fieldName(rt.Field(i), "path")
		if skip {
			continue
		}

		// Wildcard captures keep their component list; hand it over
		// whole when the field wants a string slice.
		if components, ok := params.Components(name); ok && isStringSlice(field.Type()) {
			slice := reflect.MakeSlice(field.Type(), len(components), len(components))
			for j, c := range components {
				slice.Index(j).SetString(sanitizeString(c))
			}
			field.Set(slice)
			continue
		}

		value, ok := params.Lookup(name)
		if !ok {
			continue
		}
		if err := setValue(field, field.Type(), []string{value}); err != nil {
			return fmt.Errorf("%w: path parameter %q: %v", ErrExtraction, name, err)
		}
	}
	return nil
}

func isStringSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String
}
