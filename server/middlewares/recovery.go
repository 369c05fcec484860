package middlewares

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/hlog"

	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

// Recovery is a mux middleware that recovers from panics, logs them and
// answers a JSON 500 so every request still gets exactly one response.
func Recovery() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					hlog.FromRequest(r).
						Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					_ = httputil.WriteRawJSON(w, http.StatusInternalServerError, httputil.ErrorResp{
						Message: http.StatusText(http.StatusInternalServerError),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
