// Package middleware provides the HTTP middleware stack wrapped around the
// route mux: slash normalization, request logging, CORS, metrics and tracing.
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// System is an ordered middleware chain.
type System interface {
	Use(mw Middleware)
	Apply(h http.Handler) http.Handler
}

type chain struct {
	stack []Middleware
}

// New returns an empty chain.
func New() System {
	return &chain{}
}

func (c *chain) Use(mw Middleware) {
	c.stack = append(c.stack, mw)
}

// Apply wraps h so the first registered middleware runs outermost.
func (c *chain) Apply(h http.Handler) http.Handler {
	for i := len(c.stack) - 1; i >= 0; i-- {
		h = c.stack[i](h)
	}
	return h
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
