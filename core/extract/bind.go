package extract

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// bindStruct fills the struct behind v from named string values. tag selects
// the struct tag to read ("query", "header"), location names the value
// source in error messages, and lookup resolves a parameter name to its raw
// values. Missing parameters leave fields at their zero value.
func bindStruct(v any, tag, location string, lookup func(name string) ([]string, bool)) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: bind target must be a non-nil pointer", ErrExtraction)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: bind target must be a pointer to struct", ErrExtraction)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		name, skip := fieldName(rt.Field(i), tag)
		if skip {
			continue
		}

		values, ok := lookup(name)
		if !ok || len(values) == 0 {
			continue
		}

		if err := setValue(field, field.Type(), values); err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrExtraction, location, name, err)
		}
	}
	return nil
}

// fieldName resolves the parameter name for a struct field, defaulting to
// the lowercased field name when the tag is absent. A "-" tag skips the
// field.
func fieldName(field reflect.StructField, tag string) (name string, skip bool) {
	value := field.Tag.Get(tag)
	switch value {
	case "":
		return strings.ToLower(field.Name), false
	case "-":
		return "", true
	}
	if idx := strings.Index(value, ","); idx >= 0 {
		value = value[:idx]
	}
	return value, false
}

// setValue assigns raw string values to a field, allocating through nil
// pointers and fanning out over slices.
func setValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setValue(field.Elem(), t.Elem(), values)
	}
	if t.Kind() == reflect.Slice {
		return setSlice(field, t, values)
	}
	if len(values) == 0 {
		return nil
	}
	return setScalar(field, t, values[0])
}

// setSlice fills a slice field from repeated values, additionally splitting
// single comma-separated values.
func setSlice(field reflect.Value, t reflect.Type, values []string) error {
	var flat []string
	for _, v := range values {
		if strings.Contains(v, ",") {
			flat = append(flat, strings.Split(v, ",")...)
		} else {
			flat = append(flat, v)
		}
	}

	slice := reflect.MakeSlice(t, len(flat), len(flat))
	for i, v := range flat {
		if err := setValue(slice.Index(i), t.Elem(), []string{strings.TrimSpace(v)}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}

func setScalar(field reflect.Value, t reflect.Type, value string) error {
	// Types that parse themselves (time.Time, uuid.UUID, semver.Version)
	// take precedence over the kind switch.
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(value)); err != nil {
			return fmt.Errorf("invalid value %q: %v", value, err)
		}
		return nil
	}

	switch t.Kind() {
	case reflect.String:
		field.SetString(sanitizeString(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			// Accept the usual form-friendly spellings as well.
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no", "":
				b = false
			default:
				return fmt.Errorf("invalid bool value %q", value)
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", t.Kind())
	}
	return nil
}

// sanitizeString strips NUL bytes, CR/LF, and non-printable control
// characters from bound values to block header and log injection.
func sanitizeString(value string) string {
	if !strings.ContainsFunc(value, isUnsafeRune) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if !isUnsafeRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUnsafeRune(r rune) bool {
	switch r {
	case '\x00', '\r', '\n':
		return true
	case '\t':
		return false
	}
	if !utf8.ValidRune(r) {
		return true
	}
	return r < ' ' && !unicode.IsGraphic(r)
}
