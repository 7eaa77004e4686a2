// Package transport provides a TCP implementation of goweb.Transport,
// the pluggable collaborator the core Stream consumes (spec.md §6).
// Socket tuning here is adapted from
// shockwave/pkg/shockwave/socket/tuning.go and tuning_linux.go, ported
// from raw syscall numeric constants to golang.org/x/sys/unix (an
// indirect teacher dependency, previously unwired — SPEC_FULL.md §3).
package transport

import (
	"net"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/mbits-os/goweb"
)

// Config is the socket tuning knob set, grounded on
// shockwave/pkg/shockwave/socket/tuning.go's Config.
type Config struct {
	NoDelay     bool
	RecvBuffer  int
	SendBuffer  int
	QuickAck    bool
	DeferAccept bool
	FastOpen    bool
	KeepAlive   bool
}

// DefaultConfig mirrors socket/tuning.go's DefaultConfig.
func DefaultConfig() Config {
	return Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// ConfigFromServerConfig maps the core's TOML-loadable ServerConfig
// onto a transport Config (SPEC_FULL.md §2.4).
func ConfigFromServerConfig(sc goweb.ServerConfig) Config {
	return Config{
		NoDelay:     sc.NoDelay,
		RecvBuffer:  sc.RecvBuffer,
		SendBuffer:  sc.SendBuffer,
		QuickAck:    sc.QuickAck,
		DeferAccept: sc.DeferAccept,
		FastOpen:    sc.FastOpen,
		KeepAlive:   sc.KeepAlive,
	}
}

// Apply tunes conn per cfg, grounded on socket/tuning.go's Apply:
// TCP_NODELAY is applied first and its failure is returned; buffer
// sizing and keepalive are best-effort.
func Apply(conn net.Conn, cfg Config) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var lastErr error
	ctrlErr := rawConn.Control(func(fd uintptr) {
		if cfg.NoDelay {
			if err := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
				lastErr = err
				return
			}
		}
		if cfg.RecvBuffer > 0 {
			_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
		}
		if cfg.SendBuffer > 0 {
			_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
		}
		if cfg.KeepAlive {
			_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
		}
		applyPlatformOptions(int(fd), cfg)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return lastErr
}

// ApplyListener tunes a listening socket, grounded on
// socket/tuning.go's ApplyListener (TCP_DEFER_ACCEPT/TCP_FASTOPEN must
// be set before Accept).
func ApplyListener(listener net.Listener, cfg Config) error {
	tcpListener, ok := listener.(*net.TCPListener)
	if !ok {
		return nil
	}
	file, err := tcpListener.File()
	if err != nil {
		return err
	}
	defer file.Close()
	return applyListenerOptions(int(file.Fd()), cfg)
}

// TCPTransport implements goweb.Transport over a net.Conn, grounded on
// shockwave/pkg/shockwave/http11/connection.go's net.Conn-backed
// Connection.
type TCPTransport struct {
	conn net.Conn
}

// NewTCPTransport wraps conn, applying cfg's socket tuning.
func NewTCPTransport(conn net.Conn, cfg Config) *TCPTransport {
	_ = Apply(conn, cfg)
	return &TCPTransport{conn: conn}
}

func (t *TCPTransport) Overflow(data []byte) bool {
	_, err := t.conn.Write(data)
	return err == nil
}

func (t *TCPTransport) Underflow(buf []byte) (int, bool) {
	n, err := t.conn.Read(buf)
	if n > 0 {
		return n, true
	}
	return 0, err == nil
}

func (t *TCPTransport) IsOpen() bool { return t.conn != nil }

func (t *TCPTransport) Shutdown() {
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
}

func (t *TCPTransport) LocalEndpoint() goweb.TransportEndpoint {
	return addrToEndpoint(t.conn.LocalAddr())
}

func (t *TCPTransport) RemoteEndpoint() goweb.TransportEndpoint {
	return addrToEndpoint(t.conn.RemoteAddr())
}

func addrToEndpoint(addr net.Addr) goweb.TransportEndpoint {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return goweb.TransportEndpoint{Host: addr.String()}
	}
	port, _ := strconv.Atoi(portStr)
	return goweb.TransportEndpoint{Host: host, Port: port}
}
