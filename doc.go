// Package goweb is an embeddable HTTP/1.x server core: a request-line and
// header-block parser, an Express-style path-pattern compiler, a
// method-and-prefix router with ordered middleware, and a response writer
// with buffered and chunked-streaming modes.
//
// The TCP acceptor, TLS termination, and the concrete MIME-type table are
// deliberately external; see the transport subpackage for a pluggable
// Transport implementation and the middleware subpackage for a static-file
// filter built on top of the core.
package goweb
