package router

import (
	"fmt"
	"net/url"
	"strings"
)

// SegmentKind discriminates the three template segment variants.
type SegmentKind uint8

const (
	// SegmentLiteral matches its text exactly.
	SegmentLiteral SegmentKind = iota
	// SegmentParam captures a single path segment under a name.
	SegmentParam
	// SegmentWildcard captures the entire remaining path under a name.
	// It is only valid as the final segment of a template.
	SegmentWildcard
)

// String returns a human-readable kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentParam:
		return "param"
	case SegmentWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Segment is one slash-delimited component of a route template.
// Text holds the literal text for SegmentLiteral and the variable name for
// SegmentParam and SegmentWildcard.
type Segment struct {
	Kind SegmentKind
	Text string
}

// parseSegment classifies one raw template segment.
//
// A segment that both starts with "{" and ends with "}" is a variable; a
// ":pattern" suffix inside the braces selects the wildcard form, and only
// the ".*" pattern is supported. A brace on one side only is an error.
// Everything else, embedded braces included, is a literal.
func parseSegment(raw string) (Segment, error) {
	starts := strings.HasPrefix(raw, "{")
	ends := strings.HasSuffix(raw, "}")

	if !starts && !ends {
		return Segment{Kind: SegmentLiteral, Text: raw}, nil
	}
	if !starts {
		return Segment{}, fmt.Errorf("%w: segment %q is missing a leading brace", ErrInvalidVariable, raw)
	}
	if !ends {
		return Segment{}, fmt.Errorf("%w: segment %q is missing a trailing brace", ErrInvalidVariable, raw)
	}

	name := raw[1 : len(raw)-1]
	pattern := ""
	hasPattern := false
	if idx := strings.Index(name, ":"); idx >= 0 {
		pattern = name[idx+1:]
		name = name[:idx]
		hasPattern = true
	}

	// The only constraint on the name is that it is not empty; consumers may
	// pick names like "type" or "@" and remap them when binding.
	if name == "" {
		return Segment{}, fmt.Errorf("%w: segment %q has an empty variable name", ErrInvalidVariable, raw)
	}

	switch {
	case !hasPattern:
		return Segment{Kind: SegmentParam, Text: name}, nil
	case pattern == ".*":
		return Segment{Kind: SegmentWildcard, Text: name}, nil
	default:
		return Segment{}, fmt.Errorf("%w: only the pattern '.*' is supported, got %q", ErrInvalidRegexp, pattern)
	}
}

// parseTemplate splits and validates a route template.
//
// The template must begin with "/" and only its final segment may be empty,
// so a single trailing slash is tolerated (and ignored). A wildcard must be
// the last segment, and no variable name may appear twice.
func parseTemplate(path string) ([]Segment, error) {
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, path)
	}

	raw := strings.Split(path[1:], "/")
	if last := len(raw) - 1; raw[last] == "" {
		raw = raw[:last]
	}

	segments := make([]Segment, 0, len(raw))
	names := make(map[string]struct{})

	for i, r := range raw {
		if r == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, path)
		}

		seg, err := parseSegment(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		switch seg.Kind {
		case SegmentParam, SegmentWildcard:
			if _, exists := names[seg.Text]; exists {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, seg.Text, path)
			}
			names[seg.Text] = struct{}{}
		}

		if seg.Kind == SegmentWildcard && i != len(raw)-1 {
			return nil, fmt.Errorf("%w: %q declares segments after the wildcard %q", ErrWildcardPosition, path, seg.Text)
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

// renderTemplate is the inverse of parseTemplate, producing the canonical
// template string used in Match.Template and Routes listings.
func renderTemplate(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		switch seg.Kind {
		case SegmentParam:
			b.WriteString("{" + seg.Text + "}")
		case SegmentWildcard:
			b.WriteString("{" + seg.Text + ":.*}")
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// splitRequestPath normalizes an incoming request path for matching.
//
// Empty segments from leading, trailing, or consecutive slashes are
// dropped, so "/foo/bar" and "//foo//bar/" are the same request. Each
// remaining segment is percent-decoded individually, which means an encoded
// slash stays inside its segment instead of splitting it. Dot-segments are
// rejected before decoding: this engine assigns them no meaning, and
// accepting them would only invite confusion with path traversal.
func splitRequestPath(path string) ([]string, error) {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))

	for _, r := range raw {
		switch r {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("%w: dot-segments are not permitted", ErrInvalidPath)
		}

		decoded, err := url.PathUnescape(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		segments = append(segments, decoded)
	}

	return segments, nil
}
