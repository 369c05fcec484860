// Package router declares API routes and the per-route middleware that can be
// attached to them. A route table is a Router whose Routes are built once at
// startup and never modified afterwards.
package router

import "github.com/sagarsuperuser/useradmin/internal/httputil"

// Router defines an interface to specify a group of routes to add to the server.
type Router interface {
	// Routes returns the list of routes to add to the server, in match priority order.
	Routes() []Route
}

// Route defines an individual API route in the server.
type Route interface {
	// Handler returns the raw function to create the http handler.
	Handler() httputil.APIFunc
	// Method returns the http method that the route responds to.
	Method() string
	// Path returns the subpath where the route responds to.
	Path() string
}

// RouteWrapper wraps a route with a middleware step. The step either calls the
// wrapped handler or returns an error, which ends the request.
type RouteWrapper func(r Route) Route

// Wrap builds a RouteWrapper from a plain APIFunc middleware.
func Wrap(mw func(next httputil.APIFunc) httputil.APIFunc) RouteWrapper {
	return func(route Route) Route {
		return localRoute{
			method:  route.Method(),
			path:    route.Path(),
			handler: mw(route.Handler()),
		}
	}
}
