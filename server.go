package goweb

import (
	"sort"
	"strconv"
	"strings"
)

// Server wires a compiled router into the connection callback and
// tracks nothing else stateful — it is safe to share across all
// connection worker goroutines once SetRoutes has been called
// (spec.md §3/§5).
type Server struct {
	routes *CompiledRouter
	logger Logger
	config ServerConfig
}

// NewServer returns a Server with no routes and a discarding logger;
// call SetRoutes and optionally SetLogger before serving connections.
func NewServer(config ServerConfig) *Server {
	return &Server{logger: nopLogger{}, config: config}
}

// SetRoutes installs cr as the immutable routing table. It must be
// called once, before any connection is served.
func (s *Server) SetRoutes(cr *CompiledRouter) { s.routes = cr }

// SetLogger installs the structured logger used for per-request lines.
func (s *Server) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	s.logger = l
}

// shouldKeepAlive implements spec.md §4.8's should_keep_alive: true iff
// the Connection header's comma/whitespace-separated token list
// contains "keep-alive" (case-insensitive), tokenized rather than
// substring-matched to avoid e.g. "Connection: not-keep-alive-ish"
// false-positiving, grounded on
// original_source/src/server_common.cc's should_keep_alive.
func shouldKeepAlive(req *Request) bool {
	value, ok := req.Headers.FindFront(HK.Connection)
	if !ok {
		return false
	}
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, tok := range tokens {
		if strings.EqualFold(tok, "keep-alive") {
			return true
		}
	}
	return false
}

// loadContent reads exactly Content-Length bytes (if present) from
// stream into req.Payload, per spec.md §4.8. No chunked request-body
// support is in scope (spec.md §1 Non-goals).
func loadContent(stream *Stream, req *Request) error {
	clStr, ok := req.Headers.FindFront(HK.ContentLength)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(clStr), 10, 63)
	if err != nil {
		return ErrInvalidContentLen
	}
	if n == 0 {
		return nil
	}
	buf := make([]byte, n)
	var read uint64
	for read < n {
		m, err := stream.Read(buf[read:])
		if err != nil {
			return err
		}
		read += uint64(m)
	}
	req.Payload = buf
	return nil
}

// handleConnection runs the filter chain and route dispatch for one
// request, per spec.md §4.8's handle_connection:
//  1. Filters in registration order whose prefix matches; Finished
//     short-circuits.
//  2. Route lookup by method (enum or custom string).
//  3. Trailing-slash reconciliation between mask and path.
//  4. Bind params, invoke the endpoint.
func (s *Server) handleConnection(req *Request, resp *ResponseWriter) {
	path := req.URI.Path()

	for _, f := range s.routes.filters() {
		if !prefixMatches(f.prefix, path) {
			continue
		}
		if f.mw.Handle(req, resp) == Finished {
			return
		}
	}

	var (
		route  *Route
		params []Param
		found  bool
	)
	if req.Method != Other {
		route, params, found = s.routes.Find(req.Method, path)
	} else {
		route, params, found = s.routes.FindMethod(req.SMethod, path)
	}

	if !found {
		resp.StockResponse(StatusNotFound)
		return
	}

	maskHasSlash := strings.HasSuffix(route.Mask, "/")
	pathHasSlash := strings.HasSuffix(path, "/")
	if maskHasSlash != pathHasSlash {
		if maskHasSlash && !pathHasSlash {
			loc := req.URI.String() + "/"
			resp.SetHeader(HK.Location, loc) //nolint:errcheck // pre-headers-sent
			resp.StockResponse(StatusMovedPermanently)
		} else {
			resp.StockResponse(StatusNotFound)
		}
		return
	}

	req.Params = params
	route.Call(req, resp)
}

// PrintRoutes renders the compiled router's filters and routes grouped
// by mask, per original_source/include/web/server.h's server::print():
// filters first, then routes with their methods joined by "|".
func (s *Server) PrintRoutes() string {
	var b strings.Builder
	if s.routes == nil {
		return b.String()
	}

	for _, f := range s.routes.filters() {
		b.WriteString("USE  ")
		b.WriteString(f.prefix)
		b.WriteByte('\n')
	}

	grouped := make(map[string][]string)
	var order []string
	addRoute := func(methodName, mask string) {
		if _, ok := grouped[mask]; !ok {
			order = append(order, mask)
		}
		grouped[mask] = append(grouped[mask], methodName)
	}

	for method, list := range s.routes.routes {
		for _, rt := range list {
			_ = rt
			addRoute(method.String(), rt.Mask)
		}
	}
	for name, list := range s.routes.sroutes {
		for _, rt := range list {
			addRoute(name, rt.Mask)
		}
	}

	sort.Strings(order)
	for _, mask := range order {
		b.WriteString(strings.Join(grouped[mask], "|"))
		b.WriteString("  ")
		b.WriteString(mask)
		b.WriteByte('\n')
	}
	return b.String()
}
