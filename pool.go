package goweb

import "sync"

// Per-request object pools, grounded on
// shockwave/pkg/shockwave/http11/pool.go's GetRequest/PutRequest
// pattern: Request, RequestParser and ResponseWriter are recreated once
// per exchange on a persistent connection (spec.md §3 Lifecycles), so
// pooling avoids an allocation per request on busy connections.
var (
	requestPool = sync.Pool{New: func() any { return newRequest() }}
	parserPool  = sync.Pool{New: func() any { return NewRequestParser() }}
)

// getRequest returns a cleared Request from the pool.
func getRequest() *Request {
	req := requestPool.Get().(*Request)
	req.reset()
	return req
}

// putRequest returns req to the pool.
func putRequest(req *Request) {
	requestPool.Put(req)
}

// getParser returns a cleared RequestParser from the pool.
func getParser() *RequestParser {
	p := parserPool.Get().(*RequestParser)
	p.reset()
	return p
}

// putParser returns p to the pool.
func putParser(p *RequestParser) {
	parserPool.Put(p)
}
