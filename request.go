package goweb

// Param is one bound path parameter, produced by the path matcher and
// moved onto the Request before the endpoint is invoked (spec.md §4.4).
// Exactly one of SName/NName is meaningful, matching the original's
// {sname OR nname, value} shape: named captures set SName, and unnamed
// groups and "*" wildcards set NName to their positional index.
type Param struct {
	SName string
	NName int
	Value string
}

// Request is populated by the request parser and, for the params field,
// by the router at dispatch time. It is owned exclusively by the
// connection loop for the duration of one request/response exchange
// and is recycled via pool.go on persistent connections.
type Request struct {
	Method  Method
	SMethod string // original token, meaningful only when Method == Other

	Resource string // raw request-target as it appeared on the wire
	URI      URI    // reconstructed absolute URI

	Version HttpVersion

	Params  []Param
	Headers *Headers

	Payload []byte // loaded only when Content-Length is present

	LocalHost, RemoteHost string
	LocalPort, RemotePort int
}

func newRequest() *Request {
	return &Request{Headers: NewHeaders()}
}

func (r *Request) reset() {
	r.Method = Other
	r.SMethod = ""
	r.Resource = ""
	r.URI = URI{}
	r.Version = VersionNone
	r.Params = r.Params[:0]
	r.Headers.Clear()
	r.Payload = nil
	r.LocalHost, r.LocalPort = "", 0
	r.RemoteHost, r.RemotePort = "", 0
}

// Host returns the Host header's first value, per
// original_source/include/web/request.h's request::host().
func (r *Request) Host() (string, bool) {
	return r.Headers.FindFront(HK.Host)
}

// FindParam looks up a bound parameter by name.
func (r *Request) FindParam(name string) (string, bool) {
	for _, p := range r.Params {
		if p.SName == name {
			return p.Value, true
		}
	}
	return "", false
}
