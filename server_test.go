package goweb

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldKeepAliveTokenized(t *testing.T) {
	req := newRequest()
	req.Headers.Set(HK.Connection, "keep-alive")
	assert.True(t, shouldKeepAlive(req))

	req.Headers.Set(HK.Connection, "Keep-Alive, Upgrade")
	assert.True(t, shouldKeepAlive(req))

	req.Headers.Set(HK.Connection, "close")
	assert.False(t, shouldKeepAlive(req))

	req.Headers.Set(HK.Connection, "not-keep-alive-ish")
	assert.False(t, shouldKeepAlive(req))

	req.Headers.Erase(HK.Connection)
	assert.False(t, shouldKeepAlive(req))
}

func TestHandleConnectionDispatchesRoute(t *testing.T) {
	r := NewRouter()
	r.Add("/hello", GET, handlerNamed("hello"))
	cr, err := r.Compile()
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig())
	s.SetRoutes(cr)

	req := newRequest()
	req.Method = GET
	uri, err := Canonical("/hello", "http", "example.com:80")
	require.NoError(t, err)
	req.URI = uri

	resp, _ := newTestResponse(req)
	s.handleConnection(req, resp)

	v, ok := resp.headers.FindFront(MakeHeaderKey("X-Handler"))
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestHandleConnectionNotFound(t *testing.T) {
	r := NewRouter()
	cr, err := r.Compile()
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig())
	s.SetRoutes(cr)

	req := newRequest()
	req.Method = GET
	uri, err := Canonical("/missing", "http", "example.com:80")
	require.NoError(t, err)
	req.URI = uri

	resp, _ := newTestResponse(req)
	s.handleConnection(req, resp)
	assert.Equal(t, StatusNotFound, resp.Status())
}

func TestHandleConnectionTrailingSlashRedirect(t *testing.T) {
	r := NewRouter()
	r.Add("/a/", GET, handlerNamed("a"))
	cr, err := r.Compile()
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig())
	s.SetRoutes(cr)

	req := newRequest()
	req.Method = GET
	uri, err := Canonical("/a", "http", "example.com:80")
	require.NoError(t, err)
	req.URI = uri

	resp, _ := newTestResponse(req)
	s.handleConnection(req, resp)
	assert.Equal(t, StatusMovedPermanently, resp.Status())
	loc, ok := resp.headers.FindFront(HK.Location)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(loc, "/a/"))
}

// pipelinedTransport serves two requests back to back over one
// connection, then reports closed — enough to exercise the keep-alive
// path in OnConnection without a real socket.
type pipelinedTransport struct {
	in     *strings.Reader
	out    strings.Builder
	closed bool
}

func (p *pipelinedTransport) Overflow(data []byte) bool {
	p.out.Write(data)
	return true
}

func (p *pipelinedTransport) Underflow(buf []byte) (int, bool) {
	n, err := p.in.Read(buf)
	if n == 0 && err != nil {
		return 0, false
	}
	return n, true
}

func (p *pipelinedTransport) IsOpen() bool { return !p.closed }
func (p *pipelinedTransport) Shutdown()    { p.closed = true }
func (p *pipelinedTransport) LocalEndpoint() TransportEndpoint {
	return TransportEndpoint{Host: "localhost", Port: 80}
}
func (p *pipelinedTransport) RemoteEndpoint() TransportEndpoint {
	return TransportEndpoint{Host: "client", Port: 1234}
}

func TestOnConnectionKeepAliveServesTwoRequests(t *testing.T) {
	r := NewRouter()
	r.Add("/hello", GET, handlerNamed("hello"))
	cr, err := r.Compile()
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig())
	s.SetRoutes(cr)

	raw := "GET /hello HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n" +
		"GET /hello HTTP/1.1\r\nHost: example.com\r\nConnection: close\r\n\r\n"
	pt := &pipelinedTransport{in: strings.NewReader(raw)}
	stream := NewStream(pt)

	s.OnConnection(stream, false, ConnectionID{Seq: 1, UUID: uuid.New()})

	out := pt.out.String()
	assert.Equal(t, 2, strings.Count(out, "X-Handler: hello"))
	assert.True(t, pt.closed)
}
