package router

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
	"github.com/sagarsuperuser/useradmin/store"
)

var (
	// ErrForbidden is returned for a valid identity that lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrAccountSuspended is returned for a suspended account, on guarded
	// routes and at login.
	ErrAccountSuspended = errors.New("account suspended")
)

// CheckAuth wraps a route so that only identities holding one of roles reach
// it. With no roles any authenticated identity is accepted. The resolved
// identity is attached to the request context.
func CheckAuth(resolver IdentityResolver, roles ...store.Role) RouteWrapper {
	allowed := slices.Clone(roles)
	return Wrap(func(next httputil.APIFunc) httputil.APIFunc {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
			id, err := resolver.Resolve(ctx, req)
			if err != nil {
				return err
			}
			if id == nil {
				return errdefs.Unauthorized(ErrNoCredentials)
			}

			if id.Status == store.StatusSuspended {
				return errdefs.Forbidden(ErrAccountSuspended)
			}
			if len(allowed) > 0 && !slices.Contains(allowed, id.Role) {
				zerolog.Ctx(ctx).Debug().
					Int64("user_id", id.UserID).
					Stringer("role", id.Role).
					Msg("role not allowed for route")
				return errdefs.Forbidden(ErrForbidden)
			}

			ctx = WithIdentity(ctx, id)
			return next(ctx, rw, req.WithContext(ctx), vars)
		}
	})
}
