package goweb

import (
	"net/url"
	"strconv"
	"strings"
)

// URI is the façade pinned down (but not respecified) by spec.md §1/§3:
// an opaque value offering scheme/authority/path/query/fragment
// accessors, built on the standard library's net/url since RFC 3986
// parsing and normalization is an explicitly external collaborator in
// this spec, not a component of the core (see DESIGN.md).
type URI struct {
	u *url.URL
}

// Scheme, Host, Path, RawQuery, Fragment proxy to the underlying URL.
func (u URI) Scheme() string   { return safeURL(u).Scheme }
func (u URI) Host() string     { return safeURL(u).Host }
func (u URI) Path() string     { return safeURL(u).Path }
func (u URI) RawQuery() string { return safeURL(u).RawQuery }
func (u URI) Fragment() string { return safeURL(u).Fragment }
func (u URI) String() string   { return safeURL(u).String() }

func safeURL(u URI) *url.URL {
	if u.u == nil {
		return &url.URL{}
	}
	return u.u
}

// Canonical reconstructs an absolute, normalized URI from a
// request-target (target), a scheme+authority base, matching
// original_source's uri::canonical(resource, host, with_pass):
// lower-cases scheme/host and resolves the target against the base.
func Canonical(target string, scheme, authority string) (URI, error) {
	base := &url.URL{Scheme: strings.ToLower(scheme), Host: strings.ToLower(authority)}
	ref, err := url.Parse(target)
	if err != nil {
		return URI{}, err
	}
	resolved := base.ResolveReference(ref)
	if resolved.Path == "" {
		resolved.Path = "/"
	}
	return URI{u: resolved}, nil
}

// AuthBuilder forces the authority's port, matching
// original_source's uri::auth_builder force-port behavior used by the
// request parser to pin the reconstructed URI to the server's actual
// listening port regardless of what (if anything) the client's Host
// header specified.
func AuthBuilder(hostport string, forcedPort int) string {
	host := hostport
	if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
		if _, err := strconv.Atoi(hostport[i+1:]); err == nil {
			host = hostport[:i]
		}
	}
	if forcedPort == 0 {
		return host
	}
	return host + ":" + strconv.Itoa(forcedPort)
}
