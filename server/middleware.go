package server

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/sagarsuperuser/useradmin/internal/httputil"
	"github.com/sagarsuperuser/useradmin/server/settings"
)

// handlerWithGlobalMiddlewares wraps the handler function for a request with
// the server's global middlewares. The order of the middlewares is backwards,
// meaning that the first in the list will be evaluated last.
func (s *Server) handlerWithGlobalMiddlewares(handler httputil.APIFunc) httputil.APIFunc {
	next := handler

	for i := len(s.middlewares) - 1; i >= 0; i-- {
		next = s.middlewares[i].WrapHandler(next)
	}
	return next
}

// newCORS builds the CORS policy for the configured origins. It must wrap the
// whole mux: mux middlewares only run on a route match, and a preflight
// OPTIONS request matches no API route.
func newCORS(settings *settings.Settings) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: settings.Origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Api-Version", "X-Request-Id", "Retry-After"},
		AllowCredentials: len(settings.Origins) > 0,
	})
}
