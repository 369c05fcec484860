package middlewares

import (
	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

// Middleware is an interface to allow the use of ordinary functions as API filters.
// Any struct that has the appropriate signature can be registered as a middleware.
// Global middlewares run for every route before the route's own wrappers.
type Middleware interface {
	WrapHandler(httputil.APIFunc) httputil.APIFunc
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(httputil.APIFunc) httputil.APIFunc

func (f MiddlewareFunc) WrapHandler(next httputil.APIFunc) httputil.APIFunc {
	return f(next)
}
