package extract

import (
	"context"
	"fmt"
)

// Kind classifies an extractor by its claim on the request.
type Kind int

const (
	// KindShared marks extractors that read request metadata only (query
	// string, path parameters, headers) and can be combined freely.
	KindShared Kind = iota

	// KindExclusive marks extractors that consume the request body or
	// take over the connection. An endpoint may declare at most one, and
	// it must come last.
	KindExclusive
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindShared:
		return "shared"
	case KindExclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Extractor populates itself from an incoming request.
//
// Kind must be callable on the zero value: endpoint registration derives the
// declared kind list before any request exists.
type Extractor interface {
	Kind() Kind
	Extract(ctx context.Context, src *Source) error
}

// ValidateOrder checks an endpoint's declared extractor kinds: at most one
// exclusive extractor, and if present it must be last. Violations are
// registration-time errors, never runtime ones.
func ValidateOrder(kinds []Kind) error {
	exclusive := -1
	for i, k := range kinds {
		if k != KindExclusive {
			continue
		}
		if exclusive >= 0 {
			return fmt.Errorf("%w: positions %d and %d", ErrMultipleExclusive, exclusive+1, i+1)
		}
		exclusive = i
	}
	if exclusive >= 0 && exclusive != len(kinds)-1 {
		return fmt.Errorf("%w: position %d of %d", ErrExclusiveNotLast, exclusive+1, len(kinds))
	}
	return nil
}
