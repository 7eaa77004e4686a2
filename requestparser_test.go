package goweb

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAndExtract(t *testing.T, raw string, secure bool, localPort int, localHost string) (*Request, bool) {
	t.Helper()
	p := NewRequestParser()
	r := bufio.NewReader(strings.NewReader(raw))
	res := p.Decode(r)
	require.Equal(t, fpSeparator, res)

	req := newRequest()
	ok := p.Extract(req, secure, localPort, localHost)
	return req, ok
}

func TestRequestParserBasicGet(t *testing.T) {
	req, ok := decodeAndExtract(t, "GET /hello HTTP/1.1\r\nHost: example.com\r\n\r\n", false, 80, "localhost")
	require.True(t, ok)
	assert.Equal(t, GET, req.Method)
	assert.Equal(t, "/hello", req.Resource)
	assert.Equal(t, Version11, req.Version)
	assert.Equal(t, "http://example.com:80/hello", req.URI.String())
}

func TestRequestParserCustomMethod(t *testing.T) {
	req, ok := decodeAndExtract(t, "PROPFIND /x HTTP/1.1\r\nHost: example.com\r\n\r\n", false, 80, "localhost")
	require.True(t, ok)
	assert.Equal(t, Other, req.Method)
	assert.Equal(t, "PROPFIND", req.SMethod)
}

func TestRequestParserMissingHostRejectedOn11(t *testing.T) {
	_, ok := decodeAndExtract(t, "GET /x HTTP/1.1\r\n\r\n", false, 80, "localhost")
	assert.False(t, ok)
}

func TestRequestParserMissingHostAllowedOn10(t *testing.T) {
	req, ok := decodeAndExtract(t, "GET /x HTTP/1.0\r\n\r\n", false, 80, "localhost")
	require.True(t, ok)
	assert.Contains(t, req.URI.String(), "localhost")
}

func TestRequestParserTolerantOfExtraSpaces(t *testing.T) {
	req, ok := decodeAndExtract(t, "GET  /hello  HTTP/1.1\r\nHost: example.com\r\n\r\n", false, 80, "localhost")
	require.True(t, ok)
	assert.Equal(t, "/hello", req.Resource)
}

func TestRequestParserMalformedRequestLine(t *testing.T) {
	p := NewRequestParser()
	r := bufio.NewReader(strings.NewReader("GET\r\n\r\n"))
	res := p.Decode(r)
	assert.Equal(t, fpError, res)
}

func TestRequestParserSecureScheme(t *testing.T) {
	req, ok := decodeAndExtract(t, "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n", true, 443, "localhost")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(req.URI.String(), "https://"))
}
