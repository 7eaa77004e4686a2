package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlerNamed(name string) Endpoint {
	return EndpointFunc(func(req *Request, resp *ResponseWriter) {
		resp.SetHeader(MakeHeaderKey("X-Handler"), name)
	})
}

func TestRouterRegistrationOrderFirstMatchWins(t *testing.T) {
	r := NewRouter()
	r.Add("/a/:id", GET, handlerNamed("generic"))
	r.Add("/a/special", GET, handlerNamed("special"))

	cr, err := r.Compile()
	require.NoError(t, err)

	rt, params, ok := cr.Find(GET, "/a/special")
	require.True(t, ok)
	assert.Equal(t, "/a/:id", rt.Mask)
	require.Len(t, params, 1)
	assert.Equal(t, "special", params[0].Value)
}

func TestRouterSubRouterSurrenderPrefixComposition(t *testing.T) {
	child := NewRouter()
	child.Add("/widgets/:id", GET, handlerNamed("widget"))

	parent := NewRouter()
	parent.Append("/api", child)

	cr, err := parent.Compile()
	require.NoError(t, err)

	rt, params, ok := cr.Find(GET, "/api/widgets/42")
	require.True(t, ok)
	assert.Equal(t, "/api/widgets/:id", rt.Mask)
	v, _ := paramValue(params, "id")
	assert.Equal(t, "42", v)

	_, _, ok = cr.Find(GET, "/widgets/42")
	assert.False(t, ok)
}

func TestRouterSurrenderFiltersPrefixed(t *testing.T) {
	child := NewRouter()
	child.Use("/", MiddlewareFunc(func(req *Request, resp *ResponseWriter) Result { return CarryOn }))

	parent := NewRouter()
	parent.Append("/mounted", child)

	cr, err := parent.Compile()
	require.NoError(t, err)

	require.Len(t, cr.filters(), 1)
	assert.Equal(t, "/mounted/", cr.filters()[0].prefix)
}

func TestRouterNoMatchReturnsFalse(t *testing.T) {
	r := NewRouter()
	r.Add("/known", GET, handlerNamed("known"))

	cr, err := r.Compile()
	require.NoError(t, err)

	_, _, ok := cr.Find(GET, "/unknown")
	assert.False(t, ok)
}

func TestRouterCustomMethodName(t *testing.T) {
	r := NewRouter()
	r.AddMethod("/custom", "PROPFIND", handlerNamed("propfind"))

	cr, err := r.Compile()
	require.NoError(t, err)

	rt, _, ok := cr.FindMethod("PROPFIND", "/custom")
	require.True(t, ok)
	assert.Equal(t, "/custom", rt.Mask)
}
