package goweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateEncodingPrefersBrotli(t *testing.T) {
	assert.Equal(t, "br", negotiateEncoding("gzip, br, deflate"))
	assert.Equal(t, "gzip", negotiateEncoding("gzip"))
	assert.Equal(t, "", negotiateEncoding("deflate"))
	assert.Equal(t, "", negotiateEncoding(""))
}

func TestNegotiateEncodingRespectsQZero(t *testing.T) {
	assert.Equal(t, "gzip", negotiateEncoding("br;q=0, gzip"))
}

func TestCompressBufferedRoundTrip(t *testing.T) {
	req := newRequest()
	req.Method = GET
	resp, _ := newTestResponse(req)

	_, err := resp.Write([]byte("hello world hello world hello world"))
	require.NoError(t, err)

	before := resp.body.Len()
	require.NoError(t, resp.CompressBuffered("gzip"))

	enc, ok := resp.headers.FindFront(HK.ContentEncoding)
	require.True(t, ok)
	assert.Equal(t, "gzip", enc)
	assert.False(t, resp.headers.Has(HK.ContentLength))
	assert.NotEqual(t, before, resp.body.Len())
}

func TestCompressBufferedNoopWithoutEncoding(t *testing.T) {
	req := newRequest()
	resp, _ := newTestResponse(req)
	_, err := resp.Write([]byte("hello"))
	require.NoError(t, err)

	require.NoError(t, resp.CompressBuffered(""))
	assert.False(t, resp.headers.Has(HK.ContentEncoding))
}
