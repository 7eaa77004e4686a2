package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbits-os/goweb"
)

func TestConfigFromServerConfigMapsFields(t *testing.T) {
	sc := goweb.ServerConfig{
		NoDelay:     true,
		QuickAck:    true,
		DeferAccept: false,
		FastOpen:    true,
		KeepAlive:   true,
		RecvBuffer:  4096,
		SendBuffer:  8192,
	}
	cfg := ConfigFromServerConfig(sc)
	assert.Equal(t, Config{
		NoDelay:     true,
		RecvBuffer:  4096,
		SendBuffer:  8192,
		QuickAck:    true,
		DeferAccept: false,
		FastOpen:    true,
		KeepAlive:   true,
	}, cfg)
}

func TestTCPTransportOverUnderflowOverLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverConnCh := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		serverConnCh <- c
	}()

	clientConn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	serverConn := <-serverConnCh
	require.NotNil(t, serverConn)
	defer clientConn.Close()
	defer serverConn.Close()

	clientTransport := NewTCPTransport(clientConn, DefaultConfig())
	serverTransport := NewTCPTransport(serverConn, DefaultConfig())

	require.True(t, clientTransport.Overflow([]byte("ping")))

	buf := make([]byte, 16)
	n, ok := serverTransport.Underflow(buf)
	require.True(t, ok)
	assert.Equal(t, "ping", string(buf[:n]))

	assert.True(t, clientTransport.IsOpen())
	clientTransport.Shutdown()
	assert.False(t, clientTransport.IsOpen())
}

func TestApplyNoopOnNonTCPConn(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	assert.NoError(t, Apply(a, DefaultConfig()))
}
