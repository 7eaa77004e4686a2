package goweb

import (
	"bufio"
	"strconv"
	"strings"
)

// maxRequestLineSize bounds the request line, grounded on
// shockwave/pkg/shockwave/http11/constants.go's MaxRequestLineSize.
const maxRequestLineSize = 8192

// RequestParser decodes one HTTP/1.x request message: the request line
// followed by a header block, per spec.md §4.2. It is grounded on
// original_source/include/web/request_parser.h's request_parser and
// http_parser_base<Final>.
type RequestParser struct {
	method   string
	resource string
	version  HttpVersion

	fields *fieldParser
}

// NewRequestParser returns a parser ready to decode one message.
// RequestParser instances are recycled across requests on a persistent
// connection via pool.go.
func NewRequestParser() *RequestParser {
	return &RequestParser{fields: newFieldParser()}
}

func (p *RequestParser) reset() {
	p.method, p.resource = "", ""
	p.version = VersionNone
	p.fields.reset()
}

// Decode reads the request line and header block from r. It returns
// fpSeparator on success (the request is ready for Extract) or fpError
// on any malformed input.
func (p *RequestParser) Decode(r *bufio.Reader) fieldParserResult {
	p.reset()

	line, err := readCRLFLine(r)
	if err != nil || len(line) > maxRequestLineSize {
		return fpError
	}
	if !p.parseRequestLine(line) {
		return fpError
	}

	return p.fields.decode(r)
}

// parseRequestLine splits "Method SP Request-URI SP HTTP-Version" per
// spec.md §4.2: multiple spaces between Method and URI are tolerated by
// trimming, and splitting takes the first space for the method and the
// last space for the version, matching original_source's use of
// find(' ') / rfind(' ').
func (p *RequestParser) parseRequestLine(line string) bool {
	firstSP := strings.IndexByte(line, ' ')
	lastSP := strings.LastIndexByte(line, ' ')
	if firstSP < 0 || lastSP <= firstSP {
		return false
	}

	method := line[:firstSP]
	versionTok := strings.TrimSpace(line[lastSP+1:])
	resource := strings.TrimSpace(line[firstSP+1 : lastSP])
	if method == "" || resource == "" || versionTok == "" {
		return false
	}

	version, ok := parseHTTPVersion(versionTok)
	if !ok {
		return false
	}

	p.method = method
	p.resource = resource
	p.version = version
	return true
}

// parseHTTPVersion matches "HTTP/<major>.<minor>" with decimal digits.
func parseHTTPVersion(s string) (HttpVersion, bool) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(s, prefix) {
		return HttpVersion{}, false
	}
	rest := s[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return HttpVersion{}, false
	}
	major, err1 := strconv.Atoi(rest[:dot])
	minor, err2 := strconv.Atoi(rest[dot+1:])
	if err1 != nil || err2 != nil || major < 0 || major > 255 || minor < 0 || minor > 255 {
		return HttpVersion{}, false
	}
	return HttpVersion{Major: uint8(major), Minor: uint8(minor)}, true
}

// Extract consumes the decoded state into req, per spec.md §4.2:
// - Uppercases and classifies the method.
// - Moves headers into req.
// - Reconstructs the absolute URI, requiring Host on HTTP/1.1.
//
// secure selects the scheme; localPort/localHostFallback supply the
// authority when the client omits (or is not required to send) Host.
func (p *RequestParser) Extract(req *Request, secure bool, localPort int, localHostFallback string) bool {
	p.fields.rearrange(req.Headers)

	upper := strings.ToUpper(p.method)
	if m, ok := ParseMethod(upper); ok {
		req.Method = m
		req.SMethod = ""
	} else {
		req.Method = Other
		req.SMethod = upper
	}

	req.Version = p.version
	req.Resource = p.resource

	scheme := "http"
	if secure {
		scheme = "https"
	}

	var authority string
	if host, ok := req.Headers.FindFront(HK.Host); ok {
		authority = host
	} else if p.version.AtLeast(Version11) {
		return false // Host required on 1.1
	} else {
		authority = localHostFallback
	}
	authority = AuthBuilder(authority, localPort)

	uri, err := Canonical(p.resource, scheme, authority)
	if err != nil {
		return false
	}
	req.URI = uri
	return true
}
