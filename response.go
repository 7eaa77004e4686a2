package goweb

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

const httpTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// ResponseWriter accumulates response state and serializes it to the
// owning Stream, per spec.md §4.6. It is owned exclusively by the
// connection loop for one request/response exchange.
type ResponseWriter struct {
	stream *Stream
	req    *Request

	headers *Headers
	status  Status
	version HttpVersion

	headersSent  bool
	cacheContent bool // buffered (true, default) vs streaming (false)

	body *bytebufferpool.ByteBuffer
}

// NewResponseWriter constructs a response writer bound to stream,
// answering req.
func NewResponseWriter(stream *Stream, req *Request) *ResponseWriter {
	return &ResponseWriter{
		stream:       stream,
		req:          req,
		headers:      NewHeaders(),
		status:       StatusOK,
		cacheContent: true,
		body:         bytebufferpool.Get(),
	}
}

func (w *ResponseWriter) reset(stream *Stream, req *Request) {
	w.stream = stream
	w.req = req
	w.headers.Clear()
	w.status = StatusOK
	w.version = VersionNone
	w.headersSent = false
	w.cacheContent = true
	w.body.Reset()
}

// Release returns the writer's pooled body buffer.
func (w *ResponseWriter) Release() {
	bytebufferpool.Put(w.body)
	w.body = nil
}

func (w *ResponseWriter) mustNotBeSent() error {
	if w.headersSent {
		return ErrHeadersSent
	}
	return nil
}

// SetStatus sets the response status code.
func (w *ResponseWriter) SetStatus(s Status) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.status = s
	return nil
}

func (w *ResponseWriter) Status() Status { return w.status }

// SetVersion sets the response's protocol version line.
func (w *ResponseWriter) SetVersion(v HttpVersion) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.version = v
	return nil
}

// AddHeader appends a header value.
func (w *ResponseWriter) AddHeader(key HeaderKey, value string) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.headers.Add(key, value)
	return nil
}

// SetHeader replaces a header's values.
func (w *ResponseWriter) SetHeader(key HeaderKey, value string) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.headers.Set(key, value)
	return nil
}

// EraseHeader removes a header entirely.
func (w *ResponseWriter) EraseHeader(key HeaderKey) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.headers.Erase(key)
	return nil
}

// SetCacheContent selects buffered (true) vs streaming-chunked (false)
// mode. It must be called before the first Write.
func (w *ResponseWriter) SetCacheContent(v bool) error {
	if err := w.mustNotBeSent(); err != nil {
		return err
	}
	w.cacheContent = v
	return nil
}

func (w *ResponseWriter) HeadersSent() bool { return w.headersSent }

// Write appends to the buffered body (cacheContent == true) or, in
// streaming mode, flushes headers on first use and emits one chunk per
// call, per spec.md §4.6.
func (w *ResponseWriter) Write(p []byte) (int, error) {
	if w.cacheContent {
		w.body.Write(p) //nolint:errcheck // bytebufferpool.Write never errors
		return len(p), nil
	}

	if !w.headersSent {
		if !w.headers.Has(HK.TransferEncoding) {
			w.headers.Set(HK.TransferEncoding, "chunked")
		}
		if err := w.sendHeaders(); err != nil {
			return 0, err
		}
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.writeChunk(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// writeChunk emits one chunk: size-line CRLF, data, CRLF, per RFC 7230
// §4.1, completing the chunked framing original_source's response.cc
// left unimplemented (SPEC_FULL.md §4.1), grounded on
// shockwave/pkg/shockwave/http11/chunked.go's chunk-writer shape.
func (w *ResponseWriter) writeChunk(p []byte) error {
	sizeLine := fmt.Sprintf("%x\r\n", len(p))
	if _, err := w.stream.Write([]byte(sizeLine)); err != nil {
		return ErrWriteFailed
	}
	if _, err := w.stream.Write(p); err != nil {
		return ErrWriteFailed
	}
	if _, err := w.stream.Write([]byte("\r\n")); err != nil {
		return ErrWriteFailed
	}
	return nil
}

// sendHeaders writes the status line and header block, per spec.md
// §4.6. It defaults Content-Type when unset and skips any header whose
// Name() is empty.
func (w *ResponseWriter) sendHeaders() error {
	if w.headersSent {
		return ErrHeadersSent
	}
	if !w.headers.Has(HK.ContentType) {
		w.headers.Set(HK.ContentType, "text/html; charset=UTF-8")
	}

	var buf bytebufferpool.ByteBuffer
	defer bytebufferpool.Put(&buf)

	v := w.version
	if v == VersionNone {
		v = Version11
	}
	fmt.Fprintf(&buf, "HTTP/%d.%d %d %s\r\n", v.Major, v.Minor, int(w.status), w.status.Reason())

	w.headers.VisitAll(func(key HeaderKey, value string) {
		name := key.Name()
		if name == "" {
			return
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
	})
	buf.WriteString("\r\n")

	if _, err := w.stream.Write(buf.Bytes()); err != nil {
		return ErrWriteFailed
	}
	w.headersSent = true
	return nil
}

// Finish completes the exchange, per spec.md §4.6/§4.8: buffered mode
// sets Content-Length (unless already set) and writes the body;
// streaming mode emits the zero-length terminating chunk. Either way it
// ends by flushing the stream to the transport, matching
// original_source/src/response.cc's finish(), which ends with
// "if (!m_os->overflow()) throw write_exception()" — without this, a
// response under the stream's write-buffer threshold would sit
// server-side until the next flush-sized write or Shutdown, stalling a
// keep-alive client waiting on this response before it sends the next
// request. If SendFile has already sent the response, Finish only
// flushes.
func (w *ResponseWriter) Finish() error {
	if w.cacheContent {
		if w.headersSent {
			if !w.stream.Flush() {
				return ErrWriteFailed
			}
			return nil
		}
		if isHead(w.req) && w.ifNotModified() {
			w.status = StatusNotModified
			w.body.Reset()
		}
		if !w.headers.Has(HK.ContentLength) {
			w.headers.Set(HK.ContentLength, strconv.Itoa(w.body.Len()))
		}
		if err := w.sendHeaders(); err != nil {
			return err
		}
		if !isHead(w.req) {
			if _, err := w.stream.Write(w.body.Bytes()); err != nil {
				return ErrWriteFailed
			}
		}
		if !w.stream.Flush() {
			return ErrWriteFailed
		}
		return nil
	}

	if !w.headersSent {
		if err := w.sendHeaders(); err != nil {
			return err
		}
	}
	if _, err := w.stream.Write([]byte("0\r\n\r\n")); err != nil {
		return ErrWriteFailed
	}
	if !w.stream.Flush() {
		return ErrWriteFailed
	}
	return nil
}

func isHead(req *Request) bool { return req != nil && req.Method == HEAD }

func (w *ResponseWriter) ifNotModified() bool {
	if w.req == nil {
		return false
	}
	ims, ok := w.req.Headers.FindFront(HK.IfModifiedSince)
	if !ok {
		return false
	}
	lm, ok := w.headers.FindFront(HK.LastModified)
	return ok && lm == ims
}

// StockResponse replaces the buffered body with a minimal HTML document
// for status, per spec.md §4.6. If Location is set, an anchor to it is
// included.
func (w *ResponseWriter) StockResponse(status Status) {
	w.status = status
	w.body.Reset()

	reason := status.Reason()
	fmt.Fprintf(w.body, "<!DOCTYPE html>\n<html><head><title>%d %s</title></head><body>\n", int(status), reason)
	fmt.Fprintf(w.body, "<h1>%d %s</h1>\n", int(status), reason)
	if loc, ok := w.headers.FindFront(HK.Location); ok {
		fmt.Fprintf(w.body, "<p><a href=\"%s\">%s</a></p>\n", loc, loc)
	}
	w.body.WriteString("</body></html>\n")

	w.headers.Set(HK.ContentType, "text/html; charset=UTF-8")
}

// SendFile streams the file at path, per spec.md §4.6: missing -> stock
// 404; directory -> stock 403; sets Content-Length/Content-Type/
// Last-Modified; promotes to 304 on a matching If-Modified-Since for
// non-HEAD requests; streams the body in 8KiB chunks via the low-level
// write path.
func (w *ResponseWriter) SendFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		w.StockResponse(StatusNotFound)
		return nil
	}
	if info.IsDir() {
		w.StockResponse(StatusForbidden)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		w.StockResponse(StatusNotFound)
		return nil
	}
	defer f.Close()

	lastModified := info.ModTime().UTC().Format(httpTimeFormat)
	w.headers.Set(HK.ContentLength, strconv.FormatInt(info.Size(), 10))
	if !w.headers.Has(HK.ContentType) {
		w.headers.Set(HK.ContentType, contentTypeFor(path))
	}
	w.headers.Set(HK.LastModified, lastModified)

	if !isHead(w.req) {
		if ims, ok := w.req.Headers.FindFront(HK.IfModifiedSince); ok && ims == lastModified {
			w.status = StatusNotModified
			w.headers.Erase(HK.ContentLength)
			if err := w.sendHeaders(); err != nil {
				return err
			}
			return nil
		}
	}

	if err := w.sendHeaders(); err != nil {
		return err
	}
	if isHead(w.req) {
		return nil
	}

	buf := make([]byte, 8192)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := w.stream.Write(buf[:n]); werr != nil {
				return ErrWriteFailed
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return ErrWriteFailed
		}
	}
}

// contentTypeFor is the stdlib fallback for MIME sniffing; the
// aofei/mimesniffer-based lookup (SPEC_FULL.md §3) lives in
// middleware/files.go, which calls SendFile after already having
// determined the sniffed type and can override Content-Type before the
// headers are sent.
func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
