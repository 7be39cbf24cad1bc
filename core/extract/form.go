package extract

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
)

// formMemoryLimit caps the memory used for multipart parsing; larger file
// parts spill to disk.
const formMemoryLimit = 10 << 20

// Form binds application/x-www-form-urlencoded fields and
// multipart/form-data fields and file parts into T. Bindings are opt-in
// through struct tags:
//
//   - `form:"name"` binds a form field
//   - `file:"name"` binds an uploaded file to *multipart.FileHeader or
//     []*multipart.FileHeader
//   - `form:"-"` and `file:"-"` skip the field
//
// Uploaded filenames are stripped to their base name before binding.
type Form[T any] struct {
	Value T
}

// Kind reports that form extraction consumes the request body.
func (*Form[T]) Kind() Kind { return KindExclusive }

func (f *Form[T]) Extract(ctx context.Context, src *Source) error {
	r := src.Request()

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return fmt.Errorf("%w, expected application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
	}
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: malformed content type %q", ErrExtraction, contentType)
	}

	body, err := src.TakeBody()
	if err != nil {
		return err
	}
	r.Body = body

	var values url.Values
	var files map[string][]*multipart.FileHeader

	switch mt {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			if src.BodyExceeded() {
				return fmt.Errorf("%w: limit of %d bytes exceeded", ErrPayloadTooLarge, src.BodyLimit())
			}
			return fmt.Errorf("%w: form: %v", ErrExtraction, err)
		}
		values = r.PostForm

	case "multipart/form-data":
		if !validBoundary(params["boundary"]) {
			return fmt.Errorf("%w: invalid multipart boundary", ErrExtraction)
		}
		if err := r.ParseMultipartForm(formMemoryLimit); err != nil {
			if src.BodyExceeded() {
				return fmt.Errorf("%w: limit of %d bytes exceeded", ErrPayloadTooLarge, src.BodyLimit())
			}
			return fmt.Errorf("%w: multipart form: %v", ErrExtraction, err)
		}
		if r.MultipartForm != nil {
			values = r.MultipartForm.Value
			files = r.MultipartForm.File
		}

	default:
		return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, mt)
	}

	return bindForm(&f.Value, values, files)
}

// bindForm fills the struct behind v from form values and uploaded files.
func bindForm(v any, values url.Values, files map[string][]*multipart.FileHeader) error {
	rv := reflect.ValueOf(v).Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: form target must be a struct", ErrExtraction)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		sf := rt.Field(i)

		if name, ok := formTagName(sf, "form"); ok {
			if vs, exists := values[name]; exists && len(vs) > 0 {
				if err := setValue(field, field.Type(), vs); err != nil {
					return fmt.Errorf("%w: form field %q: %v", ErrExtraction, name, err)
				}
			}
		}

		if name, ok := formTagName(sf, "file"); ok && files != nil {
			if headers, exists := files[name]; exists && len(headers) > 0 {
				if err := setFileValue(field, field.Type(), headers); err != nil {
					return fmt.Errorf("%w: file %q: %v", ErrExtraction, name, err)
				}
			}
		}
	}
	return nil
}

// formTagName resolves a form or file binding. Unlike query and header
// bindings there is no field-name fallback, untagged fields are left alone.
func formTagName(field reflect.StructField, tag string) (string, bool) {
	value := field.Tag.Get(tag)
	if value == "" || value == "-" {
		return "", false
	}
	if idx := strings.Index(value, ","); idx >= 0 {
		value = value[:idx]
	}
	return value, value != ""
}

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

func setFileValue(field reflect.Value, t reflect.Type, headers []*multipart.FileHeader) error {
	for _, fh := range headers {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	switch {
	case t == fileHeaderType:
		field.Set(reflect.ValueOf(headers[0]))
	case t.Kind() == reflect.Slice && t.Elem() == fileHeaderType:
		slice := reflect.MakeSlice(t, len(headers), len(headers))
		for i, fh := range headers {
			slice.Index(i).Set(reflect.ValueOf(fh))
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported file field type %s", t)
	}
	return nil
}

// sanitizeFilename strips directory components and NUL bytes from uploaded
// filenames to block path traversal.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")
	switch name {
	case "", ".", "..", "/":
		return "unnamed"
	}
	return name
}

// validBoundary rejects boundary values that would break multipart parsing.
func validBoundary(boundary string) bool {
	if boundary == "" || len(boundary) > 100 {
		return false
	}
	return !strings.ContainsAny(boundary, "\x00\r\n")
}
