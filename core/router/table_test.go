package router_test

import (
	"net/http"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/core/router"
)

func mustInsert(t *testing.T, tbl *router.Table[string], method, path, name string) {
	t.Helper()
	require.NoError(t, tbl.Insert(method, path, router.AllVersions(), name))
}

func TestTableLiteralRoutes(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/foo/bar", "foo-bar")

	tests := []struct {
		path string
		ok   bool
	}{
		{"/foo/bar", true},
		{"/foo/bar/", true},
		{"//foo/bar", true},
		{"//foo//bar", true},
		{"//foo//bar//", true},
		{"///foo///bar///", true},
		{"/", false},
		{"/foo", false},
		{"//foo", false},
		{"/foo/bar/baz", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := tbl.Lookup(http.MethodGet, tt.path, nil)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "foo-bar", m.Handler)
				assert.Equal(t, "/foo/bar", m.Template)
				assert.Zero(t, m.Params.Len())
			} else {
				assert.ErrorIs(t, err, router.ErrNotFound)
			}
		})
	}
}

func TestTableRootRoute(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/", "root")

	for _, path := range []string{"/", "//", "///"} {
		m, err := tbl.Lookup(http.MethodGet, path, nil)
		require.NoError(t, err, "path %q", path)
		assert.Equal(t, "root", m.Handler)
		assert.Equal(t, "/", m.Template)
	}

	_, err := tbl.Lookup(http.MethodPut, "/", nil)
	assert.ErrorIs(t, err, router.ErrMethodNotAllowed)
}

func TestTableMethodNotAllowed(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/foo/bar", "get")
	mustInsert(t, tbl, http.MethodPost, "/foo/bar", "post")

	_, err := tbl.Lookup(http.MethodPut, "/foo/bar", nil)
	require.ErrorIs(t, err, router.ErrMethodNotAllowed)

	var mna *router.MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, []string{"GET", "POST"}, mna.Allow)

	// Trailing slash resolves to the same node.
	_, err = tbl.Lookup(http.MethodPut, "/foo/bar/", nil)
	assert.ErrorIs(t, err, router.ErrMethodNotAllowed)

	// An unknown path stays a plain not-found.
	_, err = tbl.Lookup(http.MethodPut, "/foo", nil)
	assert.ErrorIs(t, err, router.ErrNotFound)
	assert.NotErrorIs(t, err, router.ErrMethodNotAllowed)
}

func TestTableMoreSpecificRouteWins(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/projects/{id}", "by-id")
	mustInsert(t, tbl, http.MethodGet, "/projects/default", "default")

	m, err := tbl.Lookup(http.MethodGet, "/projects/default", nil)
	require.NoError(t, err)
	assert.Equal(t, "default", m.Handler)
	assert.Zero(t, m.Params.Len())

	// The parameterized route stays reachable for every other value.
	m, err = tbl.Lookup(http.MethodGet, "/projects/lol", nil)
	require.NoError(t, err)
	assert.Equal(t, "by-id", m.Handler)
	assert.Equal(t, "lol", m.Params.Get("id"))
}

func TestTableCatchAll(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/projects/{id}", "by-id")
	mustInsert(t, tbl, http.MethodGet, "/projects/default", "default")
	mustInsert(t, tbl, http.MethodGet, "/{path:.*}", "catch-all")

	tests := []struct {
		path    string
		handler string
	}{
		{"/projects/lol", "by-id"},
		{"/projects/default", "default"},
		{"/lolwut", "catch-all"},
		{"/lolwut/test", "catch-all"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := tbl.Lookup(http.MethodGet, tt.path, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.handler, m.Handler)
		})
	}
}

func TestTableNoBacktracking(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/projects/default", "literal")
	mustInsert(t, tbl, http.MethodGet, "/{id}/default/lol", "param")

	// The literal route resolves normally.
	m, err := tbl.Lookup(http.MethodGet, "/projects/default", nil)
	require.NoError(t, err)
	assert.Equal(t, "literal", m.Handler)

	// "/projects" commits the walk to the literal branch, so the longer
	// parameterized route is out of reach for this prefix.
	_, err = tbl.Lookup(http.MethodGet, "/projects/default/lol", nil)
	assert.ErrorIs(t, err, router.ErrNotFound)

	// Any other first segment falls through to the parameter edge.
	m, err = tbl.Lookup(http.MethodGet, "/some_id/default/lol", nil)
	require.NoError(t, err)
	assert.Equal(t, "param", m.Handler)
	assert.Equal(t, "some_id", m.Params.Get("id"))
}

func TestTableEmptyVariable(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/projects/{project_id}/instances", "instances")

	// Collapsed empty segments shorten the path; none of these has a
	// middle segment left for the variable to capture.
	for _, path := range []string{"/projects/instances", "/projects//instances", "/projects///instances"} {
		_, err := tbl.Lookup(http.MethodGet, path, nil)
		assert.ErrorIs(t, err, router.ErrNotFound, "path %q", path)
	}

	m, err := tbl.Lookup(http.MethodGet, "/projects/foo/instances", nil)
	require.NoError(t, err)
	assert.Equal(t, "instances", m.Handler)
	assert.Equal(t, "foo", m.Params.Get("project_id"))
}

func TestTableParamsDeclarationOrder(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet,
		"/projects/{project_id}/instances/{instance_id}/fwrules/{fwrule_id}/info", "info")

	m, err := tbl.Lookup(http.MethodGet, "/projects/p1/instances/i2/fwrules/fw3/info", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"project_id", "instance_id", "fwrule_id"}, m.Params.Names())
	assert.Equal(t, "p1", m.Params.Get("project_id"))
	assert.Equal(t, "i2", m.Params.Get("instance_id"))
	assert.Equal(t, "fw3", m.Params.Get("fwrule_id"))
}

func TestTableWildcardCapture(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodOptions, "/console/{path:.*}", "console")

	m, err := tbl.Lookup(http.MethodOptions, "/console/missiles/launch", nil)
	require.NoError(t, err)
	components, ok := m.Params.Components("path")
	require.True(t, ok)
	assert.Equal(t, []string{"missiles", "launch"}, components)
	assert.Equal(t, "missiles/launch", m.Params.Get("path"))

	// The wildcard also claims the empty remainder.
	m, err = tbl.Lookup(http.MethodOptions, "/console", nil)
	require.NoError(t, err)
	components, ok = m.Params.Components("path")
	require.True(t, ok)
	assert.Empty(t, components)
	assert.Equal(t, "", m.Params.Get("path"))
}

func TestTablePercentDecoding(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/words/{word}", "word")

	// An encoded slash stays inside its segment instead of splitting it.
	m, err := tbl.Lookup(http.MethodGet, "/words/baz%2fbuzz", nil)
	require.NoError(t, err)
	assert.Equal(t, "baz/buzz", m.Params.Get("word"))

	m, err = tbl.Lookup(http.MethodGet, "/words/hello%20world", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", m.Params.Get("word"))
}

func TestTableRejectsBadPaths(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/{anything:.*}", "all")

	for _, path := range []string{"/foo/../bar", "/./foo", "/..", "/foo/%zz"} {
		_, err := tbl.Lookup(http.MethodGet, path, nil)
		assert.ErrorIs(t, err, router.ErrInvalidPath, "path %q", path)
	}
}

func TestTableEmbeddedBracesAreLiterals(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/not{a}variable", "literal")

	m, err := tbl.Lookup(http.MethodGet, "/not{a}variable", nil)
	require.NoError(t, err)
	assert.Equal(t, "literal", m.Handler)
	assert.Zero(t, m.Params.Len())

	_, err = tbl.Lookup(http.MethodGet, "/not{b}variable", nil)
	assert.ErrorIs(t, err, router.ErrNotFound)
	_, err = tbl.Lookup(http.MethodGet, "/notnotavariable", nil)
	assert.ErrorIs(t, err, router.ErrNotFound)
}

func TestTableInsertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing leading slash", "foo/bar", router.ErrInvalidPattern},
		{"empty path", "", router.ErrInvalidPattern},
		{"empty middle segment", "/foo//bar", router.ErrInvalidPattern},
		{"missing trailing brace", "/{foo", router.ErrInvalidVariable},
		{"missing leading brace", "/bar}", router.ErrInvalidVariable},
		{"empty variable name", "/{}", router.ErrInvalidVariable},
		{"unsupported pattern", "/word/{rest:[a-z]*}", router.ErrInvalidRegexp},
		{"empty pattern", "/word/{rest:}", router.ErrInvalidRegexp},
		{"segments after wildcard", "/some/{more:.*}/{stuff}", router.ErrWildcardPosition},
		{"duplicate variable", "/projects/{id}/insts/{id}", router.ErrDuplicateParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := router.NewTable[string]()
			err := tbl.Insert(http.MethodGet, tt.path, router.AllVersions(), "h")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("trailing slash after wildcard is tolerated", func(t *testing.T) {
		tbl := router.NewTable[string]()
		assert.NoError(t, tbl.Insert(http.MethodGet, "/some/{more:.*}/", router.AllVersions(), "h"))
	})
}

func TestTableDuplicateRoutes(t *testing.T) {
	t.Parallel()

	t.Run("identical template", func(t *testing.T) {
		tbl := router.NewTable[string]()
		mustInsert(t, tbl, http.MethodGet, "/boo", "first")
		err := tbl.Insert(http.MethodGet, "/boo", router.AllVersions(), "second")
		assert.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("normalized template", func(t *testing.T) {
		tbl := router.NewTable[string]()
		mustInsert(t, tbl, http.MethodGet, "/foo/bar", "first")
		err := tbl.Insert(http.MethodGet, "/foo/bar/", router.AllVersions(), "second")
		assert.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("same path different method is fine", func(t *testing.T) {
		tbl := router.NewTable[string]()
		mustInsert(t, tbl, http.MethodGet, "/boo", "get")
		assert.NoError(t, tbl.Insert(http.MethodPost, "/boo", router.AllVersions(), "post"))
	})

	t.Run("literal next to parameter is fine", func(t *testing.T) {
		tbl := router.NewTable[string]()
		mustInsert(t, tbl, http.MethodGet, "/projects/{id}", "by-id")
		assert.NoError(t, tbl.Insert(http.MethodGet, "/projects/default", router.AllVersions(), "default"))
	})

	t.Run("literal next to wildcard is fine", func(t *testing.T) {
		tbl := router.NewTable[string]()
		mustInsert(t, tbl, http.MethodGet, "/projects/{rest:.*}", "rest")
		assert.NoError(t, tbl.Insert(http.MethodGet, "/projects/default", router.AllVersions(), "default"))
	})
}

func TestTableParamNameConflict(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	mustInsert(t, tbl, http.MethodGet, "/projects/{id}", "by-id")

	// The same position must keep the same variable name across templates.
	err := tbl.Insert(http.MethodPost, "/projects/{project_id}", router.AllVersions(), "other")
	assert.ErrorIs(t, err, router.ErrParamNameConflict)

	err = tbl.Insert(http.MethodGet, "/projects/{id}/files/{rest:.*}", router.AllVersions(), "files")
	require.NoError(t, err)
	err = tbl.Insert(http.MethodPost, "/projects/{id}/files/{other:.*}", router.AllVersions(), "other-files")
	assert.ErrorIs(t, err, router.ErrParamNameConflict)
}

func TestTableVersionedLookup(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()

	until := router.VersionsUntil(semver.MustParse("1.2.3"))
	mid, err := router.VersionsFromUntil(semver.MustParse("2.0.0"), semver.MustParse("3.0.0"))
	require.NoError(t, err)
	from := router.VersionsFrom(semver.MustParse("5.0.0"))

	require.NoError(t, tbl.Insert(http.MethodGet, "/foo", until, "h1"))
	require.NoError(t, tbl.Insert(http.MethodGet, "/foo", mid, "h2"))
	require.NoError(t, tbl.Insert(http.MethodGet, "/foo", from, "h3"))
	assert.True(t, tbl.HasVersionedRoutes())

	tests := []struct {
		version string
		handler string
		found   bool
	}{
		{"1.2.2", "h1", true},
		{"1.2.3", "", false},
		{"2.0.0", "h2", true},
		{"2.1.0", "h2", true},
		{"3.0.0", "", false},
		{"3.0.1", "", false},
		{"4.99.99", "", false},
		{"5.0.0", "h3", true},
		{"128313.0.0", "h3", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			m, err := tbl.Lookup(http.MethodGet, "/foo", semver.MustParse(tt.version))
			if tt.found {
				require.NoError(t, err)
				assert.Equal(t, tt.handler, m.Handler)
			} else {
				assert.ErrorIs(t, err, router.ErrNotFound)
			}
		})
	}

	t.Run("nil version matches first entry", func(t *testing.T) {
		m, err := tbl.Lookup(http.MethodGet, "/foo", nil)
		require.NoError(t, err)
		assert.Equal(t, "h1", m.Handler)
	})
}

func TestTableVersionedErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate version range", func(t *testing.T) {
		tbl := router.NewTable[string]()
		v := router.VersionsFrom(semver.MustParse("1.2.3"))
		require.NoError(t, tbl.Insert(http.MethodGet, "/boo", v, "first"))
		err := tbl.Insert(http.MethodGet, "/boo", v, "second")
		assert.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("overlapping version ranges", func(t *testing.T) {
		tbl := router.NewTable[string]()
		require.NoError(t, tbl.Insert(http.MethodGet, "/boo",
			router.VersionsFrom(semver.MustParse("1.2.3")), "first"))
		err := tbl.Insert(http.MethodGet, "/boo",
			router.VersionsFrom(semver.MustParse("4.5.6")), "second")
		assert.ErrorIs(t, err, router.ErrVersionOverlap)
	})

	t.Run("version-aware not found vs method not allowed", func(t *testing.T) {
		tbl := router.NewTable[string]()
		require.NoError(t, tbl.Insert(http.MethodGet, "/foo",
			router.VersionsFrom(semver.MustParse("1.0.0")), "h"))

		// The path exists, but not for this version.
		_, err := tbl.Lookup(http.MethodGet, "/foo", semver.MustParse("0.9.0"))
		assert.ErrorIs(t, err, router.ErrNotFound)

		// The version is served, just not under this method.
		_, err = tbl.Lookup(http.MethodPut, "/foo", semver.MustParse("1.1.0"))
		assert.ErrorIs(t, err, router.ErrMethodNotAllowed)

		// For an unserved version even the wrong method is a 404.
		_, err = tbl.Lookup(http.MethodPut, "/foo", semver.MustParse("0.9.0"))
		assert.ErrorIs(t, err, router.ErrNotFound)
	})
}

func TestTableRoutes(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	assert.Empty(t, tbl.Routes())

	mustInsert(t, tbl, http.MethodPost, "/", "root-post")
	mustInsert(t, tbl, http.MethodGet, "/", "root-get")
	mustInsert(t, tbl, http.MethodGet, "/projects/{project_id}/instances", "instances")
	mustInsert(t, tbl, http.MethodGet, "/console/{path:.*}", "console")

	routes := tbl.Routes()
	require.Len(t, routes, 4)

	got := make([][2]string, len(routes))
	for i, r := range routes {
		got[i] = [2]string{r.Method, r.Template}
	}
	assert.Equal(t, [][2]string{
		{"GET", "/"},
		{"POST", "/"},
		{"GET", "/console/{path:.*}"},
		{"GET", "/projects/{project_id}/instances"},
	}, got)
}

func TestTableLowercaseMethodNormalized(t *testing.T) {
	t.Parallel()

	tbl := router.NewTable[string]()
	require.NoError(t, tbl.Insert("get", "/foo", router.AllVersions(), "h"))

	m, err := tbl.Lookup("GET", "/foo", nil)
	require.NoError(t, err)
	assert.Equal(t, "h", m.Handler)

	m, err = tbl.Lookup("get", "/foo", nil)
	require.NoError(t, err)
	assert.Equal(t, "h", m.Handler)
}
