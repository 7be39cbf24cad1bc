package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Table is the route table: a trie keyed by path segment, built up front by
// Insert and read-only thereafter. It is generic over the handler payload H
// so the dispatch layer can store whatever it needs per endpoint. Lookups
// take no locks; Insert must not be called once serving has started.
type Table[H any] struct {
	root      *tableNode[H]
	versioned bool
}

// tableNode is one trie node. Each node holds at most one parameter edge
// and one wildcard edge; their variable names are fixed by the first
// template that creates them.
type tableNode[H any] struct {
	literals map[string]*tableNode[H]
	param    *tableEdge[H]
	wildcard *tableEdge[H]
	methods  map[string][]tableEntry[H]
}

// tableEdge is a named parameter or wildcard transition.
type tableEdge[H any] struct {
	name string
	node *tableNode[H]
}

// tableEntry is one registration at a node. Entries under the same method
// differ only by version range.
type tableEntry[H any] struct {
	versions Versions
	template string
	handler  H
}

// Match is a successful lookup: the registered handler payload, the
// variables captured along the way, and the canonical template that
// matched.
type Match[H any] struct {
	Handler  H
	Params   Params
	Template string
}

// Route describes one registration, as reported by Routes.
type Route struct {
	Method   string
	Template string
	Versions Versions
}

// NewTable returns an empty route table.
func NewTable[H any]() *Table[H] {
	return &Table[H]{root: &tableNode[H]{}}
}

// Insert registers handler under (method, path, versions).
//
// The template is validated as described in parseTemplate. Registering the
// same (method, template) pair twice with equal version ranges fails with
// ErrDuplicateRoute; distinct but overlapping ranges fail with
// ErrVersionOverlap. Templates that reuse a parameter or wildcard position
// under a different variable name fail with ErrParamNameConflict.
func (t *Table[H]) Insert(method, path string, versions Versions, handler H) error {
	segments, err := parseTemplate(path)
	if err != nil {
		return err
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return fmt.Errorf("%w: empty method for %q", ErrInvalidPattern, path)
	}

	node := t.root
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentLiteral:
			if node.literals == nil {
				node.literals = make(map[string]*tableNode[H])
			}
			child, ok := node.literals[seg.Text]
			if !ok {
				child = &tableNode[H]{}
				node.literals[seg.Text] = child
			}
			node = child

		case SegmentParam:
			if node.param == nil {
				node.param = &tableEdge[H]{name: seg.Text, node: &tableNode[H]{}}
			} else if node.param.name != seg.Text {
				return fmt.Errorf("%w: %q uses %q where %q is already registered",
					ErrParamNameConflict, path, seg.Text, node.param.name)
			}
			node = node.param.node

		case SegmentWildcard:
			// parseTemplate guarantees the wildcard is terminal, so this
			// node can never grow outgoing edges.
			if node.wildcard == nil {
				node.wildcard = &tableEdge[H]{name: seg.Text, node: &tableNode[H]{}}
			} else if node.wildcard.name != seg.Text {
				return fmt.Errorf("%w: %q uses %q where %q is already registered",
					ErrParamNameConflict, path, seg.Text, node.wildcard.name)
			}
			node = node.wildcard.node
		}
	}

	entries := node.methods[method]
	for _, e := range entries {
		if e.versions.Overlaps(versions) {
			if e.versions.Equal(versions) {
				return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, path)
			}
			return fmt.Errorf("%w: %s %s (%s overlaps %s)",
				ErrVersionOverlap, method, path, versions, e.versions)
		}
	}

	if node.methods == nil {
		node.methods = make(map[string][]tableEntry[H])
	}
	node.methods[method] = append(entries, tableEntry[H]{
		versions: versions,
		template: renderTemplate(segments),
		handler:  handler,
	})

	if !versions.IsAll() {
		t.versioned = true
	}
	return nil
}

// Lookup resolves a request to the single best-matching entry.
//
// The path is expected in its raw (still percent-encoded) form. At each
// position the literal edge wins over the parameter edge, which wins over
// the wildcard edge, and the choice is committed: a dead end deeper in the
// tree never reopens an earlier position. A wildcard edge at the final node
// matches the empty remainder.
//
// Failures are ErrInvalidPath for undecodable or dot-segment paths,
// *MethodNotAllowedError when the path and version are served under other
// methods only, and ErrNotFound otherwise. version narrows the candidate
// entries; nil matches any registration.
func (t *Table[H]) Lookup(method, path string, version *semver.Version) (*Match[H], error) {
	segments, err := splitRequestPath(path)
	if err != nil {
		return nil, err
	}

	node := t.root
	var params Params

	for i := 0; i < len(segments); i++ {
		seg := segments[i]

		if child, ok := node.literals[seg]; ok {
			node = child
			continue
		}

		if node.param != nil {
			params.add(node.param.name, seg)
			node = node.param.node
			continue
		}

		if node.wildcard != nil {
			params.addRest(node.wildcard.name, segments[i:])
			node = node.wildcard.node
			break
		}

		return nil, fmt.Errorf("%w: no route for path", ErrNotFound)
	}

	// A wildcard edge still pending here matches the implicit empty
	// remainder; its node is terminal by construction.
	if node.wildcard != nil {
		params.addRest(node.wildcard.name, []string{})
		node = node.wildcard.node
	}

	method = strings.ToUpper(method)
	if e := matchingEntry(node.methods[method], version); e != nil {
		return &Match[H]{Handler: e.handler, Params: params, Template: e.template}, nil
	}

	// 405 only when some other method serves this path for the requested
	// version; otherwise the route does not exist from the client's view.
	allowed := false
	for _, entries := range node.methods {
		if matchingEntry(entries, version) != nil {
			allowed = true
			break
		}
	}
	if allowed {
		allow := make([]string, 0, len(node.methods))
		for m := range node.methods {
			allow = append(allow, m)
		}
		sort.Strings(allow)
		return nil, &MethodNotAllowedError{Allow: allow}
	}

	if version != nil {
		return nil, fmt.Errorf("%w: no route for version %s", ErrNotFound, version)
	}
	return nil, fmt.Errorf("%w: no route for path", ErrNotFound)
}

// matchingEntry returns the first entry whose range matches version.
func matchingEntry[H any](entries []tableEntry[H], version *semver.Version) *tableEntry[H] {
	for i := range entries {
		if entries[i].versions.Matches(version) {
			return &entries[i]
		}
	}
	return nil
}

// HasVersionedRoutes reports whether any registration carries a bounded
// version range.
func (t *Table[H]) HasVersionedRoutes() bool {
	return t.versioned
}

// Routes lists every registration ordered by template, then method. Useful
// for startup logging and introspection.
func (t *Table[H]) Routes() []Route {
	var routes []Route
	collectRoutes(t.root, &routes)
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Template != routes[j].Template {
			return routes[i].Template < routes[j].Template
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

func collectRoutes[H any](n *tableNode[H], out *[]Route) {
	for method, entries := range n.methods {
		for _, e := range entries {
			*out = append(*out, Route{Method: method, Template: e.template, Versions: e.versions})
		}
	}
	for _, child := range n.literals {
		collectRoutes(child, out)
	}
	if n.param != nil {
		collectRoutes(n.param.node, out)
	}
	if n.wildcard != nil {
		collectRoutes(n.wildcard.node, out)
	}
}
