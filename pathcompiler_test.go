package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatcher(t *testing.T, mask string, opts CompileOptions) *Matcher {
	t.Helper()
	m, err := MakeMatcher(mask, opts)
	require.NoError(t, err)
	return m
}

func paramValue(params []Param, name string) (string, bool) {
	for _, p := range params {
		if p.SName == name {
			return p.Value, true
		}
	}
	return "", false
}

func TestPathCompilerNamedParamBinding(t *testing.T) {
	m := mustMatcher(t, "/a/:b", DefaultCompileOptions())

	params, ok := m.Matches("/a/hello")
	require.True(t, ok)
	v, found := paramValue(params, "b")
	require.True(t, found)
	assert.Equal(t, "hello", v)

	_, ok = m.Matches("/a/")
	assert.False(t, ok)

	_, ok = m.Matches("/a")
	assert.False(t, ok)
}

func TestPathCompilerOptionalParam(t *testing.T) {
	m := mustMatcher(t, "/a/:b?", DefaultCompileOptions())

	params, ok := m.Matches("/a/hello")
	require.True(t, ok)
	v, _ := paramValue(params, "b")
	assert.Equal(t, "hello", v)

	params, ok = m.Matches("/a")
	require.True(t, ok)
	v, found := paramValue(params, "b")
	require.True(t, found)
	assert.Equal(t, "", v)
}

func TestPathCompilerRepeatParam(t *testing.T) {
	m := mustMatcher(t, "/a/:b*", DefaultCompileOptions())

	params, ok := m.Matches("/a")
	require.True(t, ok)
	v, _ := paramValue(params, "b")
	assert.Equal(t, "", v)

	params, ok = m.Matches("/a/x/y/z")
	require.True(t, ok)
	v, found := paramValue(params, "b")
	require.True(t, found)
	assert.Equal(t, "x/y/z", v)
}

func TestPathCompilerTrailingSlashNonStrictIdempotence(t *testing.T) {
	opts := DefaultCompileOptions()
	opts.Strict = false
	m := mustMatcher(t, "/a/:b", opts)

	_, ok := m.Matches("/a/hello")
	require.True(t, ok)
	_, ok = m.Matches("/a/hello/")
	require.True(t, ok)
}

func TestPathCompilerStrictRejectsExtraSlash(t *testing.T) {
	opts := DefaultCompileOptions()
	opts.Strict = true
	m := mustMatcher(t, "/a/:b", opts)

	_, ok := m.Matches("/a/hello")
	require.True(t, ok)
	_, ok = m.Matches("/a/hello/")
	assert.False(t, ok)
}

func TestPathCompilerNonEndModeAllowsPartialPrefix(t *testing.T) {
	opts := DefaultCompileOptions()
	opts.End = false
	m := mustMatcher(t, "/a/:b", opts)

	params, ok := m.Matches("/a/hello/more")
	require.True(t, ok)
	v, _ := paramValue(params, "b")
	assert.Equal(t, "hello", v)

	_, ok = m.Matches("/a/hellomore")
	assert.False(t, ok)
}

func TestPathCompilerWildcard(t *testing.T) {
	m := mustMatcher(t, "/static/*", DefaultCompileOptions())

	params, ok := m.Matches("/static/css/site.css")
	require.True(t, ok)
	require.Len(t, params, 1)
	assert.Equal(t, "css/site.css", params[0].Value)
}
