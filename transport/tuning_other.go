//go:build !linux && !darwin

package transport

// applyPlatformOptions is a no-op on platforms without specific
// optimizations, mirroring socket/tuning_other.go.
func applyPlatformOptions(fd int, cfg Config) {}

func applyListenerOptions(fd int, cfg Config) error { return nil }
