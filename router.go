package goweb

import "strings"

// handlerEntry is one registered (mask, endpoint, options) triple
// awaiting compilation into a Route.
type handlerEntry struct {
	mask    string
	handler Endpoint
	opts    CompileOptions
}

// mountEntry is a sub-router mounted at a prefix, awaiting surrender.
type mountEntry struct {
	prefix string
	child  *Router
}

// Router is the mutable builder described in spec.md §4.4. Call
// Compile to produce an immutable CompiledRouter; the Router itself is
// not safe for concurrent use during registration (mirroring
// original_source's router, which is built up single-threaded at
// startup and only read concurrently after compile()).
type Router struct {
	routes  map[Method][]handlerEntry
	sroutes map[string][]handlerEntry
	mounts  []mountEntry
	filters []filterEntry
}

// NewRouter returns an empty builder.
func NewRouter() *Router {
	return &Router{
		routes:  make(map[Method][]handlerEntry),
		sroutes: make(map[string][]handlerEntry),
	}
}

// Add registers endpoint for method at mask, using DefaultCompileOptions.
func (r *Router) Add(mask string, method Method, endpoint Endpoint) {
	r.AddWithOptions(mask, method, endpoint, DefaultCompileOptions())
}

// AddWithOptions registers endpoint for method at mask with explicit
// compile options (e.g. Strict to preserve a trailing-slash distinction).
func (r *Router) AddWithOptions(mask string, method Method, endpoint Endpoint, opts CompileOptions) {
	r.routes[method] = append(r.routes[method], handlerEntry{mask: mask, handler: endpoint, opts: opts})
}

// AddMethod registers endpoint for a non-enumerated method name (the
// Other/custom-method path from spec.md §3/§4.4).
func (r *Router) AddMethod(mask string, methodName string, endpoint Endpoint) {
	r.sroutes[methodName] = append(r.sroutes[methodName], handlerEntry{mask: mask, handler: endpoint, opts: DefaultCompileOptions()})
}

// Append mounts a sub-router at prefix; its handlers and filters are
// folded into the parent at Compile time via surrender (spec.md §4.4).
func (r *Router) Append(prefix string, child *Router) {
	r.mounts = append(r.mounts, mountEntry{prefix: prefix, child: child})
}

// Use registers middleware as a filter scoped to prefix.
func (r *Router) Use(prefix string, mw Middleware) {
	r.filters = append(r.filters, filterEntry{prefix: prefix, mw: mw})
}

// surrender recursively collapses r's sub-routers into itself,
// pre-order (parent filters before each mounted child's filters),
// prefixing every surrendered mask and filter prefix with the mount
// point, per spec.md §4.4 step 1.
func (r *Router) surrender() {
	for _, m := range r.mounts {
		m.child.surrender()

		for method, entries := range m.child.routes {
			for _, e := range entries {
				e.mask = joinPrefix(m.prefix, e.mask)
				r.routes[method] = append(r.routes[method], e)
			}
		}
		for name, entries := range m.child.sroutes {
			for _, e := range entries {
				e.mask = joinPrefix(m.prefix, e.mask)
				r.sroutes[name] = append(r.sroutes[name], e)
			}
		}
		for _, f := range m.child.filters {
			r.filters = append(r.filters, filterEntry{prefix: joinPrefix(m.prefix, f.prefix), mw: f.mw})
		}
	}
	r.mounts = nil
}

func joinPrefix(prefix, mask string) string {
	if prefix == "" {
		return mask
	}
	if mask == "" {
		return prefix
	}
	if strings.HasSuffix(prefix, "/") && strings.HasPrefix(mask, "/") {
		return prefix + mask[1:]
	}
	if !strings.HasSuffix(prefix, "/") && !strings.HasPrefix(mask, "/") {
		return prefix + "/" + mask
	}
	return prefix + mask
}

// Compile produces an immutable CompiledRouter, per spec.md §4.4.
func (r *Router) Compile() (*CompiledRouter, error) {
	r.surrender()

	cr := &CompiledRouter{
		routes:     make(map[Method][]*Route),
		sroutes:    make(map[string][]*Route),
		filterList: append([]filterEntry(nil), r.filters...),
	}

	for method, entries := range r.routes {
		for _, e := range entries {
			m, err := MakeMatcher(e.mask, e.opts)
			if err != nil {
				return nil, err
			}
			cr.routes[method] = append(cr.routes[method], &Route{Mask: e.mask, matcher: m, Handler: e.handler})
		}
	}
	for name, entries := range r.sroutes {
		for _, e := range entries {
			m, err := MakeMatcher(e.mask, e.opts)
			if err != nil {
				return nil, err
			}
			cr.sroutes[name] = append(cr.sroutes[name], &Route{Mask: e.mask, matcher: m, Handler: e.handler})
		}
	}

	return cr, nil
}

// CompiledRouter is the immutable, read-only-after-construction routing
// table shared across all connections (spec.md §3/§5).
type CompiledRouter struct {
	routes     map[Method][]*Route
	sroutes    map[string][]*Route
	filterList []filterEntry
}

// Find looks up the first route registered for method whose pattern
// matches path, in registration order, per spec.md §4.4.
func (cr *CompiledRouter) Find(method Method, path string) (*Route, []Param, bool) {
	return findIn(cr.routes[method], path)
}

// FindMethod is the custom-method-name counterpart to Find.
func (cr *CompiledRouter) FindMethod(methodName string, path string) (*Route, []Param, bool) {
	return findIn(cr.sroutes[methodName], path)
}

func findIn(list []*Route, path string) (*Route, []Param, bool) {
	for _, rt := range list {
		if params, ok := rt.matcher.Matches(path); ok {
			return rt, params, true
		}
	}
	return nil, nil, false
}

// filters returns the ordered, compiled filter list.
func (cr *CompiledRouter) filters() []filterEntry { return cr.filterList }
