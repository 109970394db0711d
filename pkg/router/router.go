package router

import (
	"context"
	"net/http"

	"github.com/questx-lab/lottery/config"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may return a derived context
// which is passed to the next middleware and the handler. A non-nil error
// stops the request and is written as the response.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, whatever its result. The handler's
// result is available through xcontext.Response and xcontext.Error.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	ctx     context.Context
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose requests all derive their context from ctx, so
// configs, logger and database set on ctx are visible to every handler.
func New(ctx context.Context) *Router {
	return &Router{mux: http.NewServeMux(), ctx: ctx}
}

// Branch returns a router sharing the same mux but with its own copy of the
// middlewares, so middlewares added to the branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middlewares ...MiddlewareFunc) {
	r.befores = append(r.befores, middlewares...)
}

func (r *Router) AddCloser(closers ...CloserFunc) {
	r.closers = append(r.closers, closers...)
}

// Handle registers a raw http.Handler, bypassing middlewares.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler(cfg config.ServerConfigs) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodPost, handler))
}
