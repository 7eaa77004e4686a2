package goweb

import "strings"

// headerCode is the closed enumeration of RFC 2616/7230 header names
// recognized by this module, grounded on original_source/include/web/headers.h.
type headerCode uint8

const (
	hNone headerCode = iota

	// Request headers
	hAccept
	hAcceptCharset
	hAcceptEncoding
	hAcceptLanguage
	hAuthorization
	hExpect
	hFrom
	hHost
	hIfMatch
	hIfModifiedSince
	hIfNoneMatch
	hIfRange
	hIfUnmodifiedSince
	hMaxForwards
	hProxyAuthorization
	hRange
	hReferer
	hTE
	hUserAgent

	// Response headers
	hAcceptRanges
	hAge
	hETag
	hLocation
	hProxyAuthenticate
	hRetryAfter
	hServer
	hVary
	hWWWAuthenticate

	// Entity headers
	hAllow
	hContentEncoding
	hContentLanguage
	hContentLength
	hContentLocation
	hContentMD5
	hContentRange
	hContentType
	hExpires
	hLastModified

	// General headers
	hCacheControl
	hConnection
	hDate
	hPragma
	hTrailer
	hTransferEncoding
	hUpgrade
	hVia
	hWarning

	// Not part of the original closed set, but universal enough to
	// warrant a known slot rather than living as an Extension on every
	// request: cookies and forwarding.
	hCookie
	hSetCookie
	hXForwardedFor

	headerCodeCount
)

// canonicalNames holds the fixed display spelling for each known header,
// indexed by headerCode.
var canonicalNames = [headerCodeCount]string{
	hAccept:             "Accept",
	hAcceptCharset:      "Accept-Charset",
	hAcceptEncoding:     "Accept-Encoding",
	hAcceptLanguage:     "Accept-Language",
	hAuthorization:      "Authorization",
	hExpect:             "Expect",
	hFrom:               "From",
	hHost:               "Host",
	hIfMatch:            "If-Match",
	hIfModifiedSince:    "If-Modified-Since",
	hIfNoneMatch:        "If-None-Match",
	hIfRange:            "If-Range",
	hIfUnmodifiedSince:  "If-Unmodified-Since",
	hMaxForwards:        "Max-Forwards",
	hProxyAuthorization: "Proxy-Authorization",
	hRange:              "Range",
	hReferer:            "Referer",
	hTE:                 "TE",
	hUserAgent:          "User-Agent",
	hAcceptRanges:       "Accept-Ranges",
	hAge:                "Age",
	hETag:               "ETag",
	hLocation:           "Location",
	hProxyAuthenticate:  "Proxy-Authenticate",
	hRetryAfter:         "Retry-After",
	hServer:             "Server",
	hVary:               "Vary",
	hWWWAuthenticate:    "WWW-Authenticate",
	hAllow:              "Allow",
	hContentEncoding:    "Content-Encoding",
	hContentLanguage:    "Content-Language",
	hContentLength:      "Content-Length",
	hContentLocation:    "Content-Location",
	hContentMD5:         "Content-MD5",
	hContentRange:       "Content-Range",
	hContentType:        "Content-Type",
	hExpires:            "Expires",
	hLastModified:       "Last-Modified",
	hCacheControl:       "Cache-Control",
	hConnection:         "Connection",
	hDate:               "Date",
	hPragma:             "Pragma",
	hTrailer:            "Trailer",
	hTransferEncoding:   "Transfer-Encoding",
	hUpgrade:            "Upgrade",
	hVia:                "Via",
	hWarning:            "Warning",
	hCookie:             "Cookie",
	hSetCookie:          "Set-Cookie",
	hXForwardedFor:      "X-Forwarded-For",
}

// headerLookup is built once from canonicalNames, keyed by lower-cased name.
var headerLookup = func() map[string]headerCode {
	m := make(map[string]headerCode, headerCodeCount)
	for code := hAccept; code < headerCodeCount; code++ {
		name := canonicalNames[code]
		if name == "" {
			continue
		}
		m[strings.ToLower(name)] = code
	}
	return m
}()

// HeaderKey is a tagged variant: either one of the Known header codes,
// or an Extension holding a lower-cased name outside the closed set.
// Equality and hashing (via the comparable struct itself, used as a map
// key) are case-insensitive for Known keys and byte-exact on the
// already-lower-cased Extension string.
type HeaderKey struct {
	code headerCode
	ext  string // non-empty only when code == hNone
}

// MakeHeaderKey canonicalizes a raw header name: lower-cased lookup
// against the known table, Extension otherwise. Per the invariant in
// spec.md §8, MakeHeaderKey(N) == MakeHeaderKey(N.lower()) == MakeHeaderKey(N.upper()).
func MakeHeaderKey(name string) HeaderKey {
	lower := strings.ToLower(name)
	if code, ok := headerLookup[lower]; ok {
		return HeaderKey{code: code}
	}
	return HeaderKey{ext: lower}
}

// HK is a constructor table for known headers, used by code that wants
// a HeaderKey without going through string canonicalization.
var HK = struct {
	Accept, AcceptCharset, AcceptEncoding, AcceptLanguage, Authorization   HeaderKey
	Expect, From, Host, IfMatch, IfModifiedSince, IfNoneMatch              HeaderKey
	IfRange, IfUnmodifiedSince, MaxForwards, ProxyAuthorization, Range     HeaderKey
	Referer, TE, UserAgent, AcceptRanges, Age, ETag, Location              HeaderKey
	ProxyAuthenticate, RetryAfter, Server, Vary, WWWAuthenticate           HeaderKey
	Allow, ContentEncoding, ContentLanguage, ContentLength, ContentLoc     HeaderKey
	ContentMD5, ContentRange, ContentType, Expires, LastModified          HeaderKey
	CacheControl, Connection, Date, Pragma, Trailer, TransferEncoding     HeaderKey
	Upgrade, Via, Warning, Cookie, SetCookie, XForwardedFor               HeaderKey
}{
	Accept: HeaderKey{code: hAccept}, AcceptCharset: HeaderKey{code: hAcceptCharset},
	AcceptEncoding: HeaderKey{code: hAcceptEncoding}, AcceptLanguage: HeaderKey{code: hAcceptLanguage},
	Authorization: HeaderKey{code: hAuthorization}, Expect: HeaderKey{code: hExpect},
	From: HeaderKey{code: hFrom}, Host: HeaderKey{code: hHost},
	IfMatch: HeaderKey{code: hIfMatch}, IfModifiedSince: HeaderKey{code: hIfModifiedSince},
	IfNoneMatch: HeaderKey{code: hIfNoneMatch}, IfRange: HeaderKey{code: hIfRange},
	IfUnmodifiedSince: HeaderKey{code: hIfUnmodifiedSince}, MaxForwards: HeaderKey{code: hMaxForwards},
	ProxyAuthorization: HeaderKey{code: hProxyAuthorization}, Range: HeaderKey{code: hRange},
	Referer: HeaderKey{code: hReferer}, TE: HeaderKey{code: hTE},
	UserAgent: HeaderKey{code: hUserAgent}, AcceptRanges: HeaderKey{code: hAcceptRanges},
	Age: HeaderKey{code: hAge}, ETag: HeaderKey{code: hETag},
	Location: HeaderKey{code: hLocation}, ProxyAuthenticate: HeaderKey{code: hProxyAuthenticate},
	RetryAfter: HeaderKey{code: hRetryAfter}, Server: HeaderKey{code: hServer},
	Vary: HeaderKey{code: hVary}, WWWAuthenticate: HeaderKey{code: hWWWAuthenticate},
	Allow: HeaderKey{code: hAllow}, ContentEncoding: HeaderKey{code: hContentEncoding},
	ContentLanguage: HeaderKey{code: hContentLanguage}, ContentLength: HeaderKey{code: hContentLength},
	ContentLoc: HeaderKey{code: hContentLocation}, ContentMD5: HeaderKey{code: hContentMD5},
	ContentRange: HeaderKey{code: hContentRange}, ContentType: HeaderKey{code: hContentType},
	Expires: HeaderKey{code: hExpires}, LastModified: HeaderKey{code: hLastModified},
	CacheControl: HeaderKey{code: hCacheControl}, Connection: HeaderKey{code: hConnection},
	Date: HeaderKey{code: hDate}, Pragma: HeaderKey{code: hPragma},
	Trailer: HeaderKey{code: hTrailer}, TransferEncoding: HeaderKey{code: hTransferEncoding},
	Upgrade: HeaderKey{code: hUpgrade}, Via: HeaderKey{code: hVia},
	Warning: HeaderKey{code: hWarning}, Cookie: HeaderKey{code: hCookie},
	SetCookie: HeaderKey{code: hSetCookie}, XForwardedFor: HeaderKey{code: hXForwardedFor},
}

// Name returns the canonical display spelling, or the stored extension
// name for keys outside the closed set. It never returns an empty
// string for a valid key produced by MakeHeaderKey.
func (k HeaderKey) Name() string {
	if k.code != hNone {
		return canonicalNames[k.code]
	}
	return extensionDisplayName(k.ext)
}

// IsKnown reports whether k is one of the closed-enumeration headers.
func (k HeaderKey) IsKnown() bool { return k.code != hNone }

// extensionDisplayName title-cases a lower-cased, hyphen-separated
// extension name for display (e.g. "x-request-id" -> "X-Request-Id").
// Storage and comparison always use the lower-cased form; this is purely
// a rendering helper for send_headers.
func extensionDisplayName(lower string) string {
	if lower == "" {
		return ""
	}
	b := []byte(lower)
	upperNext := true
	for i, c := range b {
		if upperNext && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		upperNext = c == '-'
	}
	return string(b)
}
