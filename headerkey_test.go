package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderKeyCanonicalization(t *testing.T) {
	names := []string{"Content-Type", "content-type", "CONTENT-TYPE", "CoNtEnT-TyPe"}
	var keys []HeaderKey
	for _, n := range names {
		keys = append(keys, MakeHeaderKey(n))
	}
	for i := 1; i < len(keys); i++ {
		assert.Equal(t, keys[0], keys[i], "MakeHeaderKey must be case-insensitive for %q vs %q", names[0], names[i])
	}
	assert.Equal(t, "Content-Type", keys[0].Name())
}

func TestHeaderKeyExtension(t *testing.T) {
	k := MakeHeaderKey("X-Request-Id")
	assert.False(t, k.IsKnown())
	assert.Equal(t, "X-Request-Id", k.Name())

	k2 := MakeHeaderKey("x-request-id")
	assert.Equal(t, k, k2)
}

func TestHeaderKeyKnownSet(t *testing.T) {
	assert.True(t, MakeHeaderKey("Host").IsKnown())
	assert.True(t, MakeHeaderKey("WWW-Authenticate").IsKnown())
	assert.Equal(t, "WWW-Authenticate", MakeHeaderKey("www-authenticate").Name())
}
