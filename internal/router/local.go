package router

import (
	"net/http"

	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

// localRoute defines an individual API route to connect
// with the user-service.
// It implements Route.
type localRoute struct {
	method  string
	path    string
	handler httputil.APIFunc
}

// Handler returns the APIFunc to let the server wrap it in middlewares.
func (l localRoute) Handler() httputil.APIFunc {
	return l.handler
}

// Method returns the http method that the route responds to.
func (l localRoute) Method() string {
	return l.method
}

// Path returns the subpath where the route responds to.
func (l localRoute) Path() string {
	return l.path
}

// NewRoute initializes a new local route for the router.
// Wrappers run in the order they are given: the first one sees the request
// first and the handler runs only after all of them passed control on.
func NewRoute(method, path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	var r Route = localRoute{method, path, handler}
	for i := len(opts) - 1; i >= 0; i-- {
		r = opts[i](r)
	}
	return r
}

// NewGetRoute initializes a new route with the http method GET.
func NewGetRoute(path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	return NewRoute(http.MethodGet, path, handler, opts...)
}

// NewPostRoute initializes a new route with the http method POST.
func NewPostRoute(path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	return NewRoute(http.MethodPost, path, handler, opts...)
}

// NewPutRoute initializes a new route with the http method PUT.
func NewPutRoute(path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	return NewRoute(http.MethodPut, path, handler, opts...)
}

// NewPatchRoute initializes a new route with the http method PATCH.
func NewPatchRoute(path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	return NewRoute(http.MethodPatch, path, handler, opts...)
}

// NewDeleteRoute initializes a new route with the http method DELETE.
func NewDeleteRoute(path string, handler httputil.APIFunc, opts ...RouteWrapper) Route {
	return NewRoute(http.MethodDelete, path, handler, opts...)
}
