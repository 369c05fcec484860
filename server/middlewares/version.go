package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
	"github.com/sagarsuperuser/useradmin/internal/versions"
	"github.com/sagarsuperuser/useradmin/server/settings"
)

var (
	// ErrAPIVersionTooOld is returned for a /v{version} prefix below the
	// configured minimum.
	ErrAPIVersionTooOld = errors.New("API version is no longer supported")
	// ErrAPIVersionTooNew is returned for a /v{version} prefix above the
	// version this server speaks.
	ErrAPIVersionTooNew = errors.New("API version is not supported yet")
)

// VersionMiddleware pins every request to an API version. Requests on the
// unversioned routes get the current version.
type VersionMiddleware struct {
	server  string
	current string
	minimum string
}

func NewVersionMiddleware(s *settings.Settings) (*VersionMiddleware, error) {
	switch {
	case s.DefaultAPIVersion == "" || s.MinAPIVersion == "":
		return nil, errors.New("default and minimum API versions must be set")
	case versions.LessThan(s.DefaultAPIVersion, s.MinAPIVersion):
		return nil, fmt.Errorf("default API version %s is below the minimum %s", s.DefaultAPIVersion, s.MinAPIVersion)
	}
	return &VersionMiddleware{
		server:  "useradmin/" + s.ServerVersion,
		current: s.DefaultAPIVersion,
		minimum: s.MinAPIVersion,
	}, nil
}

// negotiate returns the version a request is served with.
func (v *VersionMiddleware) negotiate(requested string) (string, error) {
	switch {
	case requested == "":
		return v.current, nil
	case versions.LessThan(requested, v.minimum):
		return "", errdefs.InvalidParameter(fmt.Errorf("%w: %s (minimum is %s)", ErrAPIVersionTooOld, requested, v.minimum))
	case versions.GreaterThan(requested, v.current):
		return "", errdefs.InvalidParameter(fmt.Errorf("%w: %s (latest is %s)", ErrAPIVersionTooNew, requested, v.current))
	}
	return requested, nil
}

func (v *VersionMiddleware) WrapHandler(next httputil.APIFunc) httputil.APIFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
		w.Header().Set("Server", v.server)

		version, err := v.negotiate(vars["version"])
		if err != nil {
			w.Header().Set("Api-Version", v.current)
			return err
		}
		w.Header().Set("Api-Version", version)

		return next(context.WithValue(ctx, httputil.APIVersionKey{}, version), w, r, vars)
	}
}
