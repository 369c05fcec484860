package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sagarsuperuser/useradmin/errdefs"
	jwtUtils "github.com/sagarsuperuser/useradmin/internal/jwt"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/store"
)

// sessionFromJWT validates the bearer access token and returns the live
// session it was issued for. Logging out revokes that session and with it
// every access token minted for it.
func (a *Authenticator) sessionFromJWT(ctx context.Context, req *http.Request) (*store.SessionInfo, error) {
	token, claims, err := jwtUtils.ValidateAccessToken(req, a.secret)
	if err != nil {
		return nil, errdefs.Unauthorized(jwtUtils.ErrJWTValidate)
	}
	userID, err := jwtUtils.GetUserIDFromToken(token)
	if err != nil {
		return nil, errdefs.Unauthorized(jwtUtils.ErrJWTUserIDNotFound)
	}
	sessionID, err := jwtUtils.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil, errdefs.Unauthorized(err)
	}

	sess, err := a.store.GetActiveSession(ctx, sessionID)
	if errors.Is(err, sessionUtils.ErrSessionExpired) {
		return nil, errdefs.Unauthorized(sessionUtils.ErrSessionExpired)
	}
	if err != nil {
		return nil, errdefs.System(fmt.Errorf("failed to load session %d: %w", sessionID, err))
	}
	if sess.UserID != userID {
		return nil, errdefs.Unauthorized(jwtUtils.ErrJWTValidate)
	}
	return sess, nil
}
