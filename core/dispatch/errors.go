package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrNilHandler reports a registration whose handler was not produced
	// by one of the constructor functions.
	ErrNilHandler = errors.New("nil endpoint handler")

	// ErrInvalidExtractorOrder reports an endpoint whose extractor list
	// violates the pipeline rules: more than one exclusive extractor, or
	// an exclusive extractor that is not last.
	ErrInvalidExtractorOrder = errors.New("invalid extractor order")

	// ErrAlreadyBuilt reports a registration attempted after Build.
	ErrAlreadyBuilt = errors.New("api already built")
)

// PanicError gives error handlers access to a recovered handler panic:
// the original panic value and the stack captured at the panic point.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap exposes panics raised with an error value to errors.Is and
// errors.As.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
