// Package routes registers route groups on a net/http ServeMux.
package routes

import (
	"log/slog"
	"net/http"
)

// System accumulates routes and builds the mux.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build() http.Handler
	Groups() []Group
	Routes() []Route
}

type registry struct {
	routes []Route
	groups []Group
	logger *slog.Logger
}

// New creates an empty route system.
func New(logger *slog.Logger) System {
	return &registry{logger: logger.With("system", "routes")}
}

func (r *registry) Groups() []Group { return r.groups }

func (r *registry) Routes() []Route { return r.routes }

func (r *registry) RegisterRoute(route Route) {
	r.routes = append(r.routes, route)
}

func (r *registry) RegisterGroup(group Group) {
	r.groups = append(r.groups, group)
}

func (r *registry) Build() http.Handler {
	mux := http.NewServeMux()

	for _, route := range r.routes {
		r.handle(mux, route.Method, route.Pattern, route.Handler)
	}
	for _, group := range r.groups {
		r.mount(mux, "", group)
	}

	return mux
}

func (r *registry) mount(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		r.handle(mux, route.Method, prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		r.mount(mux, prefix, child)
	}
}

func (r *registry) handle(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	r.logger.Debug("route registered", "method", method, "pattern", pattern)
	mux.HandleFunc(method+" "+pattern, h)
}
