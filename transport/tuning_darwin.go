//go:build darwin

package transport

import "golang.org/x/sys/unix"

// darwinTCPFastopen and darwinTCPKeepAlive mirror
// shockwave/pkg/shockwave/socket/tuning_darwin.go's constants; x/sys/unix
// does not export TCP_FASTOPEN/TCP_KEEPALIVE under those exact names on
// darwin, so the numeric values are kept as the teacher defined them.
const (
	darwinTCPFastopen  = 0x105
	darwinTCPKeepAlive = 0x10
)

func applyPlatformOptions(fd int, cfg Config) {
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, darwinTCPKeepAlive, 60)
	}
}

func applyListenerOptions(fd int, cfg Config) error {
	if cfg.FastOpen {
		return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, darwinTCPFastopen, 256)
	}
	return nil
}
