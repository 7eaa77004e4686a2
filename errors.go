package goweb

import "errors"

// Parse errors — malformed request line or header block, or a missing
// Host on HTTP/1.1. The connection loop answers these with a stock 400
// and closes the connection (§7.1).
var (
	ErrInvalidRequestLine = errors.New("goweb: invalid request line")
	ErrInvalidProtocol    = errors.New("goweb: invalid or unsupported HTTP version")
	ErrInvalidHeaderField = errors.New("goweb: malformed header field")
	ErrObsoleteFoldAtBOF  = errors.New("goweb: obsolete line folding with no preceding field")
	ErrBareCR             = errors.New("goweb: bare CR in header field")
	ErrHostRequired       = errors.New("goweb: Host header required for HTTP/1.1")
	ErrInvalidContentLen  = errors.New("goweb: invalid Content-Length")

	// ErrRequestLineTooLarge and ErrHeadersTooLarge guard against
	// unbounded buffering of a hostile or broken client.
	ErrRequestLineTooLarge = errors.New("goweb: request line too large")
	ErrHeadersTooLarge     = errors.New("goweb: header block too large")
)

// ErrWriteFailed wraps a transport failure observed while flushing a
// response. The connection loop treats it as unrecoverable: no retry, no
// further writes, immediate shutdown (§7.3).
var ErrWriteFailed = errors.New("goweb: write failed")

// ErrHeadersSent is returned by any response mutator invoked after
// headers have already been flushed to the wire (§7.4). It signals a
// bug in the calling endpoint or middleware, not a wire-level failure.
var ErrHeadersSent = errors.New("goweb: headers already sent")

// ErrConnectionClosed indicates the underlying transport is no longer
// open.
var ErrConnectionClosed = errors.New("goweb: connection closed")
