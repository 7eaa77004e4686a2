//go:build !prometheus

package goweb

// Without the prometheus build tag, these are no-ops so the connection
// loop can call them unconditionally.
func metricsConnectionAccepted()                          {}
func metricsConnectionClosed()                            {}
func metricsRequestHandled(status Status, seconds float64) {}
