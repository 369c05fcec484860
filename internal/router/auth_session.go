package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sagarsuperuser/useradmin/errdefs"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/store"
)

// sessionFromCookie looks up the live session named by the sid cookie.
func (a *Authenticator) sessionFromCookie(ctx context.Context, req *http.Request) (*store.SessionInfo, error) {
	token, err := sessionUtils.ReadSessionCookie(req)
	if err != nil {
		return nil, errdefs.Unauthorized(ErrNoCredentials)
	}
	sess, err := a.store.GetActiveSessionByToken(ctx, token)
	if errors.Is(err, sessionUtils.ErrSessionExpired) {
		return nil, errdefs.Unauthorized(sessionUtils.ErrSessionExpired)
	}
	if err != nil {
		return nil, errdefs.System(fmt.Errorf("failed to load session: %w", err))
	}
	return sess, nil
}
