package module

import (
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/signpost/pkg/middleware"
	"github.com/JaimeStill/signpost/pkg/routes"
)

// Router dispatches to mounted modules by first path segment. Requests that
// match no module fall through to a native ServeMux with its own middleware.
type Router struct {
	modules    map[string]*Module
	native     *http.ServeMux
	middleware middleware.System

	once   sync.Once
	serves http.Handler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		modules:    make(map[string]*Module),
		native:     http.NewServeMux(),
		middleware: middleware.New(),
	}
}

// HandleNative registers a handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// HandleNativeFunc registers a handler function on the fallback mux.
func (r *Router) HandleNativeFunc(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// RegisterNative adds route groups to the fallback mux.
func (r *Router) RegisterNative(groups ...routes.Group) {
	routes.Register(r.native, groups...)
}

// UseNative appends middleware applied to fallback routes only.
func (r *Router) UseNative(mw func(http.Handler) http.Handler) {
	r.middleware.Use(mw)
}

// Mount registers m under its prefix, replacing any module with the same prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalizePath(req)

	if m, ok := r.modules[firstSegment(path)]; ok {
		m.Serve(w, req)
		return
	}

	r.once.Do(func() {
		r.serves = r.middleware.Apply(r.native)
	})
	r.serves.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[1]
	}
	return path
}

func normalizePath(req *http.Request) string {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}
	return path
}
