package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersRoundTrip(t *testing.T) {
	h := NewHeaders()
	h.Add(HK.SetCookie, "a=1")
	h.Add(HK.SetCookie, "b=2")
	h.Add(HK.Host, "example.com")

	require.True(t, h.Has(HK.SetCookie))
	assert.Equal(t, []string{"a=1", "b=2"}, h.Find(HK.SetCookie))

	front, ok := h.FindFront(HK.Host)
	require.True(t, ok)
	assert.Equal(t, "example.com", front)

	var order []string
	h.VisitAll(func(key HeaderKey, value string) {
		order = append(order, key.Name()+"="+value)
	})
	assert.Equal(t, []string{"Set-Cookie=a=1", "Set-Cookie=b=2", "Host=example.com"}, order)
}

func TestHeadersEraseAndSet(t *testing.T) {
	h := NewHeaders()
	h.Add(HK.ContentType, "text/plain")
	h.Set(HK.ContentType, "application/json")
	assert.Equal(t, []string{"application/json"}, h.Find(HK.ContentType))

	h.Erase(HK.ContentType)
	assert.False(t, h.Has(HK.ContentType))
	assert.Equal(t, 0, h.Len())
}

func TestHeadersClearForReuse(t *testing.T) {
	h := NewHeaders()
	h.Add(HK.Host, "a")
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.Has(HK.Host))
}
