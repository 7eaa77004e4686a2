// Package middleware provides the static-file-serving filter whose
// contract spec.md §4.5 pins down without specifying internals,
// grounded on original_source/middleware/files/files.{h,cc}.
package middleware

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/aofei/mimesniffer"
	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/mbits-os/goweb"
)

// StaticFiles serves files under Root, per spec.md §4.5:
//   - a regular file at root+path is streamed and Finished;
//   - a directory falls back to index.html inside it if present;
//   - a missing path is CarryOn (falls through to routing);
//   - non-GET/HEAD against an existing path is 405 with Allow: GET,HEAD.
//
// Optional existence caching (fastcache, keyed by xxhash, invalidated
// via fsnotify) is grounded on aofei-air's coffer.go and wired per
// SPEC_FULL.md §3 once WithWatch has been called. The cache only spares
// the os.Stat for paths already known to be missing; without it, every
// request simply calls os.Stat, matching the original's uncached behavior.
type StaticFiles struct {
	Root string

	cache   *fastcache.Cache
	watcher *fsnotify.Watcher
	mu      sync.RWMutex
}

// NewStaticFiles returns a filter rooted at root, with its trailing
// separator stripped (root must not be empty), mirroring
// original_source/middleware/files/files.cc's constructor assertion.
func NewStaticFiles(root string) *StaticFiles {
	if root == "" {
		panic("middleware: static file root must not be empty")
	}
	return &StaticFiles{Root: strings.TrimRight(root, string(filepath.Separator))}
}

// WithWatch enables an existence cache (an exists/missing flag per path)
// backed by fastcache and invalidated by an fsnotify watch on Root
// (SPEC_FULL.md §3).
func (s *StaticFiles) WithWatch() (*StaticFiles, error) {
	s.cache = fastcache.New(4 * 1024 * 1024)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return s, err
	}
	if err := w.Add(s.Root); err != nil {
		w.Close()
		return s, err
	}
	s.watcher = w
	go s.watchLoop()
	return s, nil
}

func (s *StaticFiles) watchLoop() {
	for range s.watcher.Events {
		s.mu.Lock()
		s.cache.Reset()
		s.mu.Unlock()
	}
}

// Close stops the watcher goroutine, if any.
func (s *StaticFiles) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *StaticFiles) cacheKey(path string) []byte {
	h := xxhash.Sum64String(path)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (8 * i))
	}
	return b
}

// stat wraps os.Stat with the optional fastcache existence cache.
func (s *StaticFiles) stat(path string) (os.FileInfo, bool) {
	if s.cache == nil {
		info, err := os.Stat(path)
		return info, err == nil
	}
	key := s.cacheKey(path)
	s.mu.RLock()
	cached, ok := s.cache.HasGet(nil, key)
	s.mu.RUnlock()
	if ok {
		if len(cached) == 0 {
			return nil, false
		}
		info, err := os.Stat(path)
		return info, err == nil
	}
	info, err := os.Stat(path)
	s.mu.Lock()
	if err == nil {
		s.cache.Set(key, []byte{1})
	} else {
		s.cache.Set(key, nil)
	}
	s.mu.Unlock()
	return info, err == nil
}

// Handle implements goweb.Middleware.
func (s *StaticFiles) Handle(req *goweb.Request, resp *goweb.ResponseWriter) goweb.Result {
	reqPath := req.URI.Path()
	fsPath := filepath.Join(s.Root, filepath.FromSlash(reqPath))

	info, ok := s.stat(fsPath)
	if !ok {
		return goweb.CarryOn
	}

	if req.Method != goweb.GET && req.Method != goweb.HEAD {
		resp.SetHeader(goweb.HK.Allow, "GET,HEAD") //nolint:errcheck
		resp.StockResponse(goweb.StatusMethodNotAllowed)
		return goweb.Finished
	}

	if info.IsDir() {
		indexPath := filepath.Join(fsPath, "index.html")
		indexInfo, ok := s.stat(indexPath)
		if !ok || indexInfo.IsDir() {
			return goweb.CarryOn
		}
		if !strings.HasSuffix(reqPath, "/") {
			resp.SetHeader(goweb.HK.Location, reqPath+"/") //nolint:errcheck
			resp.StockResponse(goweb.StatusMovedPermanently)
			return goweb.Finished
		}
		s.sendWithSniffedType(resp, indexPath)
		return goweb.Finished
	}

	s.sendWithSniffedType(resp, fsPath)
	return goweb.Finished
}

// sendWithSniffedType sniffs path's content via aofei/mimesniffer before
// delegating to SendFile, so the response carries a content-sniffed
// Content-Type rather than an extension-table guess (SPEC_FULL.md §3);
// SendFile's own extension-based fallback only applies when sniffing is
// inconclusive.
func (s *StaticFiles) sendWithSniffedType(resp *goweb.ResponseWriter, path string) {
	if data, err := os.ReadFile(path); err == nil {
		if ct := mimesniffer.Sniff(data); ct != "" {
			resp.SetHeader(goweb.HK.ContentType, ct) //nolint:errcheck
		}
	}
	_ = resp.SendFile(path)
}
