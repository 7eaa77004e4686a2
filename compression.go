package goweb

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

// negotiateEncoding picks "br", "gzip", or "" from an Accept-Encoding
// value, preferring brotli when both are acceptable — an enrichment
// wired per SPEC_FULL.md §3; response compression is not excluded by
// spec.md's non-goals (only *request*-body compression is).
func negotiateEncoding(acceptEncoding string) string {
	hasBr, hasGzip := false, false
	for _, tok := range strings.Split(acceptEncoding, ",") {
		tok = strings.TrimSpace(tok)
		name := tok
		if i := strings.IndexByte(tok, ';'); i >= 0 {
			name = strings.TrimSpace(tok[:i])
			if strings.Contains(tok[i:], "q=0") && !strings.Contains(tok[i:], "q=0.") {
				continue
			}
		}
		switch strings.ToLower(name) {
		case "br":
			hasBr = true
		case "gzip":
			hasGzip = true
		}
	}
	switch {
	case hasBr:
		return "br"
	case hasGzip:
		return "gzip"
	default:
		return ""
	}
}

// CompressBuffered compresses w's buffered body in place using the
// encoding negotiated from acceptEncoding, setting Content-Encoding and
// clearing any already-set Content-Length so Finish recomputes it from
// the compressed size. It is a no-op in streaming mode or once headers
// have been sent. Nothing in this module calls it: Finish does not
// compress, and the connection loop does not read
// ServerConfig.EnableCompression, so an endpoint that wants a
// compressed body calls CompressBuffered itself before returning.
func (w *ResponseWriter) CompressBuffered(acceptEncoding string) error {
	if !w.cacheContent || w.headersSent {
		return nil
	}
	enc := negotiateEncoding(acceptEncoding)
	if enc == "" {
		return nil
	}

	compressed, err := compressBytes(enc, w.body.Bytes())
	if err != nil {
		return err
	}

	w.body.Reset()
	w.body.Write(compressed) //nolint:errcheck
	w.headers.Set(HK.ContentEncoding, enc)
	w.headers.Erase(HK.ContentLength)
	return nil
}

func compressBytes(enc string, data []byte) ([]byte, error) {
	var buf strings.Builder
	switch enc {
	case "gzip":
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	case "br":
		bw := brotli.NewWriter(&buf)
		if _, err := bw.Write(data); err != nil {
			return nil, err
		}
		if err := bw.Close(); err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	return []byte(buf.String()), nil
}
