package goweb

import (
	"bufio"

	"github.com/valyala/bytebufferpool"
)

// TransportEndpoint describes a transport-level peer address, per spec.md §6.
type TransportEndpoint struct {
	Host string
	Port int
}

// Transport is the pluggable collaborator consumed by Stream, pinned
// down in spec.md §6. The concrete TCP implementation lives in the
// transport subpackage; Stream itself never assumes a socket.
type Transport interface {
	// Overflow attempts to write exactly len(data) bytes. It returns
	// false on transport failure or abort.
	Overflow(data []byte) bool
	// Underflow attempts to read at least one byte into buf, returning
	// the number of bytes read. ok is false on end-of-stream or
	// failure; n may be 0 when ok is true only if buf is empty.
	Underflow(buf []byte) (n int, ok bool)
	IsOpen() bool
	Shutdown()
	LocalEndpoint() TransportEndpoint
	RemoteEndpoint() TransportEndpoint
}

// streamWriteBuffer is the fixed ~4KiB write buffer size from
// spec.md §4.7, used only to decide when to flush — the backing store
// itself comes from bytebufferpool (see SPEC_FULL.md §2.1).
const streamWriteBuffer = 4192

// Stream is a full-duplex buffered byte stream over a pluggable
// Transport, per spec.md §4.7. Writes exceeding the remaining buffer
// room trigger Overflow; reads past the end of the input buffer
// trigger Underflow.
type Stream struct {
	t Transport

	out *bytebufferpool.ByteBuffer

	inBuf []byte
	in    []byte // inBuf[:n], the unread portion after inPos
	inPos int

	br *bufio.Reader // wraps Stream.Read; persists across requests on the connection
}

// inputBufferSize is the growable input buffer's initial capacity.
const inputBufferSize = 8192

// NewStream wraps t in a buffered Stream.
func NewStream(t Transport) *Stream {
	s := &Stream{t: t, out: bytebufferpool.Get(), inBuf: make([]byte, inputBufferSize)}
	s.br = bufio.NewReader(streamReader{s})
	return s
}

// streamReader adapts Stream's Read to io.Reader without exposing
// Stream itself as satisfying io.Reader (Stream.Read above already has
// the right signature, but routing it through this tiny wrapper keeps
// bufio's internal buffering decoupled from Stream's own input buffer).
type streamReader struct{ s *Stream }

func (r streamReader) Read(p []byte) (int, error) { return r.s.Read(p) }

// reader returns the persistent line reader used by RequestParser.Decode.
func (s *Stream) reader() *bufio.Reader { return s.br }

// Release returns the stream's pooled output buffer. Callers must not
// use the Stream after calling Release.
func (s *Stream) Release() {
	bytebufferpool.Put(s.out)
	s.out = nil
}

// Write buffers p, flushing via the transport's Overflow once the
// internal buffer would exceed streamWriteBuffer. It returns the
// number of bytes accepted and an error if a flush failed.
func (s *Stream) Write(p []byte) (int, error) {
	s.out.Write(p) //nolint:errcheck // bytebufferpool.Write never errors
	if s.out.Len() >= streamWriteBuffer {
		if !s.Flush() {
			return 0, ErrWriteFailed
		}
	}
	return len(p), nil
}

// Flush forces any buffered output to the transport, returning false on
// transport failure.
func (s *Stream) Flush() bool {
	if s.out.Len() == 0 {
		return true
	}
	ok := s.t.Overflow(s.out.Bytes())
	s.out.Reset()
	return ok
}

// Read fills buf from the input buffer, invoking Underflow to refill
// when it is empty. Per spec.md §4.7's open question, Read may return
// a short read at a buffer boundary; callers that need an exact count
// must loop (see Server.loadContent).
func (s *Stream) Read(buf []byte) (int, error) {
	if s.inPos >= len(s.in) {
		n, ok := s.t.Underflow(s.inBuf)
		if !ok {
			return 0, ErrConnectionClosed
		}
		s.in = s.inBuf[:n]
		s.inPos = 0
		if n == 0 {
			return 0, ErrConnectionClosed
		}
	}
	n := copy(buf, s.in[s.inPos:])
	s.inPos += n
	return n, nil
}

// IsOpen proxies to the transport.
func (s *Stream) IsOpen() bool { return s.t.IsOpen() }

// Shutdown proxies to the transport after flushing any pending output.
func (s *Stream) Shutdown() {
	s.Flush()
	s.t.Shutdown()
}

func (s *Stream) LocalEndpoint() TransportEndpoint  { return s.t.LocalEndpoint() }
func (s *Stream) RemoteEndpoint() TransportEndpoint { return s.t.RemoteEndpoint() }
