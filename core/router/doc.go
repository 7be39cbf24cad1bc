// Package router implements the path-matching core of apikit: an immutable
// trie of route templates resolved by specificity, with no backtracking
// across segments.
//
// The table is generic over its handler payload, so it carries whatever the
// caller registers, typically the dispatch layer's endpoint entries:
//
//	tbl := router.NewTable[string]()
//	tbl.Insert(http.MethodGet, "/projects/{id}", router.AllVersions(), "get-project")
//	tbl.Insert(http.MethodGet, "/projects/default", router.AllVersions(), "get-default")
//
//	m, err := tbl.Lookup(http.MethodGet, "/projects/p1", nil)
//	// m.Handler == "get-project", m.Params.Get("id") == "p1"
//
// # Path templates
//
// Templates begin with "/" and are split on "/". A segment fully enclosed in
// braces is a named parameter ({project_id}); the suffix ":.*" turns it into
// a wildcard ({rest:.*}) that captures the entire remaining path and must be
// the final segment. Anything else is a literal, including text with
// embedded braces such as "not{a}variable". Only the final segment of a
// template may be empty, so "/projects/" is valid and equivalent to
// "/projects", while "/projects//list" is rejected.
//
// # Matching
//
// Incoming paths are normalized before the walk: empty segments collapse
// ("//foo//bar/" matches "/foo/bar"), each segment is percent-decoded
// ("%2f" survives as part of one segment rather than splitting it), and the
// dot-segments "." and ".." are rejected outright.
//
// At every node the walk tries the literal edge first, then the parameter
// edge, then the wildcard edge. Choosing an edge commits the walk to that
// branch: if a literal branch dead-ends deeper in the tree, the walk does
// not come back to try the parameter or wildcard alternative at an earlier
// position. Given "/projects/default" and "/{id}/default/lol", a request
// for "/projects/default/lol" is therefore not found: the first segment
// committed to the "projects" literal. This trade-off keeps resolution
// strictly per-segment and is relied upon by existing route tables; see
// Table.Lookup.
//
// # Versions
//
// Every registration carries a Versions range. Multiple entries may share a
// (method, template) pair as long as their ranges do not overlap, and
// Lookup selects the entry matching the requested version. A nil requested
// version matches any entry.
package router
