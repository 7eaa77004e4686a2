package goweb

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionID pairs a human-readable per-process sequence number with
// a UUID for structured log correlation — the original's reporter kept
// only the bare incrementing conn_no; this module keeps that counter
// (PrintRoutes-adjacent connection accounting, SPEC_FULL.md §2.5) and
// adds the UUID half for cross-process correlation.
type ConnectionID struct {
	Seq  uint64
	UUID uuid.UUID
}

func (c ConnectionID) String() string { return c.UUID.String() }

// OnConnection runs the connection loop described in spec.md §4.8 over
// stream until the stream closes or a parse/write failure ends the
// exchange. secure selects the scheme used to reconstruct each
// request's absolute URI.
func (s *Server) OnConnection(stream *Stream, secure bool, connID ConnectionID) {
	metricsConnectionAccepted()
	defer metricsConnectionClosed()

	localEP := stream.LocalEndpoint()
	remoteEP := stream.RemoteEndpoint()

	var reqNo uint64
	for stream.IsOpen() {
		reqNo++

		parser := getParser()
		req := getRequest()
		resp := NewResponseWriter(stream, req)

		if parser.Decode(stream.reader()) != fpSeparator {
			resp.SetVersion(Version11)       //nolint:errcheck
			resp.StockResponse(StatusBadRequest)
			_ = resp.Finish()
			s.logger.Logf(LevelInfo, "REQ [%s] -- parse error, closing", remoteEP.Host)
			putParser(parser)
			putRequest(req)
			resp.Release()
			stream.Shutdown()
			break
		}

		if !parser.Extract(req, secure, localEP.Port, localEP.Host) {
			resp.SetVersion(Version11) //nolint:errcheck
			resp.StockResponse(StatusBadRequest)
			_ = resp.Finish()
			s.logger.Logf(LevelInfo, "REQ [%s] -- missing Host on HTTP/1.1, closing", remoteEP.Host)
			putParser(parser)
			putRequest(req)
			resp.Release()
			stream.Shutdown()
			break
		}
		putParser(parser)

		req.LocalHost, req.LocalPort = localEP.Host, localEP.Port
		req.RemoteHost, req.RemotePort = remoteEP.Host, remoteEP.Port

		start := time.Now()

		writeFailed := false
		contentErr := loadContent(stream, req)
		switch {
		case contentErr == ErrInvalidContentLen:
			// A malformed Content-Length is a parse failure (§7
			// category 1), not a transport failure: answer with a
			// stock 400 rather than silently dropping the connection,
			// matching the two request-line/header failures above.
			resp.SetVersion(Version11) //nolint:errcheck
			resp.StockResponse(StatusBadRequest)
			if err := resp.Finish(); err != nil {
				writeFailed = true
			}
			s.logger.Logf(LevelInfo, "REQ [%s] -- invalid Content-Length, closing", remoteEP.Host)
			writeFailed = true
		case contentErr != nil:
			writeFailed = true
		default:
			resp.SetVersion(req.Version) //nolint:errcheck
			s.logRequest(connID, reqNo, req)
			s.handleConnection(req, resp)
			if err := resp.Finish(); err != nil {
				writeFailed = true
			}
		}

		s.logResponse(connID, reqNo, req, resp)
		metricsRequestHandled(resp.Status(), time.Since(start).Seconds())

		keepAlive := !writeFailed && shouldKeepAlive(req)

		putRequest(req)
		resp.Release()

		if writeFailed {
			stream.Shutdown()
			break
		}
		if !keepAlive {
			stream.Shutdown()
			break
		}
	}
}

func (s *Server) logRequest(id ConnectionID, reqNo uint64, req *Request) {
	s.logger.Logf(LevelInfo, "REQ  [%s #%d] %s %q %s", req.RemoteHost, reqNo, methodLabel(req), req.Resource, req.Version)
	s.logger.Logf(LevelDebug, "REQ  [%s #%d] headers:", req.RemoteHost, reqNo)
	req.Headers.VisitAll(func(key HeaderKey, value string) {
		s.logger.Logf(LevelDebug, "  %s: %s", key.Name(), value)
	})
	if xff, ok := req.Headers.FindFront(HK.XForwardedFor); ok {
		s.logger.Logf(LevelDebug, "REQ  [%s #%d] X-Forwarded-For: %s", req.RemoteHost, reqNo, xff)
	}
}

func (s *Server) logResponse(id ConnectionID, reqNo uint64, req *Request, resp *ResponseWriter) {
	s.logger.Logf(LevelInfo, "RESP [%s #%d] %s %q -- %d", req.RemoteHost, reqNo, methodLabel(req), req.Resource, int(resp.Status()))
}

func methodLabel(req *Request) string {
	if req.Method == Other {
		return req.SMethod
	}
	return req.Method.String()
}
