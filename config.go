package goweb

import (
	"os"

	"github.com/BurntSushi/toml"
)

// ServerConfig is the optional, non-mandatory TOML-loadable
// configuration layered on top of programmatic Server construction,
// grounded on aofei-air's config.go — adapted from JSON to TOML since
// BurntSushi/toml, not an encoding/json helper, is the pack dependency
// this module carries forward (SPEC_FULL.md §2.4).
type ServerConfig struct {
	Address string `toml:"address"`

	// Socket tuning, surfaced to the transport subpackage; see
	// transport.Config for the concrete field semantics.
	NoDelay     bool `toml:"no_delay"`
	QuickAck    bool `toml:"quick_ack"`
	DeferAccept bool `toml:"defer_accept"`
	FastOpen    bool `toml:"fast_open"`
	KeepAlive   bool `toml:"keep_alive"`
	RecvBuffer  int  `toml:"recv_buffer"`
	SendBuffer  int  `toml:"send_buffer"`

	MaxHeaderBytes int `toml:"max_header_bytes"`
	MaxBodyBytes   int `toml:"max_body_bytes"`

	EnableCompression bool `toml:"enable_compression"`
	WatchStaticRoot   bool `toml:"watch_static_root"`
}

// DefaultServerConfig mirrors the size limits grounded on
// shockwave/pkg/shockwave/http11/constants.go.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        ":8080",
		NoDelay:        true,
		KeepAlive:      true,
		MaxHeaderBytes: maxHeadersSize,
		MaxBodyBytes:   0, // unlimited unless set
	}
}

// LoadServerConfig reads and merges a TOML file over DefaultServerConfig.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
