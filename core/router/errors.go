package router

import (
	"errors"
	"strings"
)

var (
	// Registration errors
	ErrDuplicateRoute    = errors.New("duplicate route registration")
	ErrVersionOverlap    = errors.New("overlapping version ranges for route")
	ErrInvalidPattern    = errors.New("invalid route path pattern")
	ErrInvalidVariable   = errors.New("invalid path variable")
	ErrInvalidRegexp     = errors.New("invalid route path pattern regexp")
	ErrWildcardPosition  = errors.New("wildcard position must be last")
	ErrDuplicateParam    = errors.New("duplicate parameter name")
	ErrParamNameConflict = errors.New("conflicting parameter names for the same path position")
	ErrInvalidVersions   = errors.New("invalid version range")

	// Lookup errors
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidPath      = errors.New("invalid path encoding")
)

// MethodNotAllowedError reports a path that is registered under different
// HTTP methods than the one requested. Allow lists the acceptable methods
// in sorted order, ready for the Allow response header required by
// RFC 9110 section 15.5.6.
type MethodNotAllowedError struct {
	Allow []string
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	if len(e.Allow) == 0 {
		return ErrMethodNotAllowed.Error()
	}
	return ErrMethodNotAllowed.Error() + " (allowed: " + strings.Join(e.Allow, ", ") + ")"
}

// Is makes errors.Is(err, ErrMethodNotAllowed) match.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}
