package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURICanonicalLowercasesSchemeAndHost(t *testing.T) {
	u, err := Canonical("/a/b?x=1", "HTTP", "Example.COM:8080")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme())
	assert.Equal(t, "example.com:8080", u.Host())
	assert.Equal(t, "/a/b", u.Path())
	assert.Equal(t, "x=1", u.RawQuery())
}

func TestURICanonicalDefaultsEmptyPathToRoot(t *testing.T) {
	u, err := Canonical("", "http", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "/", u.Path())
}

func TestAuthBuilderForcesPort(t *testing.T) {
	assert.Equal(t, "example.com:443", AuthBuilder("example.com:80", 443))
	assert.Equal(t, "example.com:80", AuthBuilder("example.com", 80))
	assert.Equal(t, "example.com", AuthBuilder("example.com:80", 0))
}
