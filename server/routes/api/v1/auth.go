package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
	jwtUtils "github.com/sagarsuperuser/useradmin/internal/jwt"
	oauth2Utils "github.com/sagarsuperuser/useradmin/internal/oauth2"
	"github.com/sagarsuperuser/useradmin/internal/router"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/store"
)

const oauthTempTTL = 5 * time.Minute

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginResp struct {
	AccessToken string    `json:"access_token"`
	User        *UserResp `json:"user"`
}

// LogIn checks the credentials of a local user and opens a session.
func (s *APIV1Service) LogIn(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	body, ok := router.BodyFromContext[LoginReq](ctx)
	if !ok {
		return errdefs.System(errors.New("login body missing from context"))
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &body.Email})
	if errors.Is(err, store.ErrUserNotFound) {
		return errdefs.Unauthorized(ErrInvalidCredentials)
	}
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to find user: %w", err))
	}

	if user.PasswordHash == "" {
		return errdefs.Unauthorized(ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return errdefs.Unauthorized(ErrInvalidCredentials)
	}

	return s.startSession(ctx, rw, req, user)
}

// startSession rejects suspended users, sets the session cookie and answers
// with a fresh access token.
func (s *APIV1Service) startSession(ctx context.Context, rw http.ResponseWriter, req *http.Request, user *store.UserInfo) error {
	if user.Status == store.StatusSuspended {
		return errdefs.Forbidden(router.ErrAccountSuspended)
	}

	csResult, err := s.Store.CreateSession(ctx, user.ID)
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to create session: %w", err))
	}

	token, err := jwtUtils.GenerateAccessToken(user.Email, user.Role.String(), user.ID, csResult.Session.ID, []byte(s.Settings.SecretKey), s.now())
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to generate access token: %w", err))
	}

	sessionUtils.SetSessionCookie(rw, req, csResult.Session.ExpiresAt, csResult.Token)
	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user logged in")

	return httputil.WriteRawJSON(rw, http.StatusOK, LoginResp{
		AccessToken: token,
		User:        newUserResp(user),
	})
}

// LogOut revokes the session the request authenticates with, whether through
// a bearer token or the cookie, and then the cookie session if any. It always
// succeeds.
func (s *APIV1Service) LogOut(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	if id, err := s.Auth.Resolve(ctx, req); err == nil {
		if _, err := s.Store.EndSession(ctx, id.Session); err != nil {
			hlog.FromRequest(req).Warn().Err(err).Msg("failed to revoke session")
		}
	}
	if token, err := sessionUtils.ReadSessionCookie(req); err == nil {
		if _, err := s.Store.RevokeSession(ctx, token); err != nil {
			hlog.FromRequest(req).Warn().Err(err).Msg("failed to revoke session")
		}
	}
	sessionUtils.ClearSessionCookie(rw, req)

	return httputil.WriteRawJSON(rw, http.StatusOK, map[string]string{"message": "logged out"})
}

// GoogleLogin redirects to the Google consent page using PKCE.
func (s *APIV1Service) GoogleLogin(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	verifier := oauth2.GenerateVerifier()
	state := oauth2Utils.GenerateState()

	if err := oauth2Utils.SetOAuthTempCookie(rw, state, verifier, oauthTempTTL); err != nil {
		return errdefs.System(fmt.Errorf("failed to set oauth temp cookie: %w", err))
	}

	url := s.OAuthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)

	http.Redirect(rw, req, url, http.StatusFound)
	return nil
}

// GoogleCallback finishes the code exchange, links or creates the user and
// opens a session.
func (s *APIV1Service) GoogleCallback(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	q := req.URL.Query()
	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		return errdefs.InvalidParameter(errors.New("missing code/state"))
	}

	tmp, err := oauth2Utils.ReadOAuthTempCookie(req)
	if err != nil {
		return errdefs.InvalidParameter(fmt.Errorf("temp cookie read failed: %w", err))
	}
	oauth2Utils.ClearOAuthTempCookie(rw)

	if err := tmp.CheckState(state); err != nil {
		return errdefs.Unauthorized(err)
	}

	tok, err := s.OAuthConfig.Exchange(ctx, code, oauth2.VerifierOption(tmp.Verifier))
	if err != nil {
		return errdefs.Unauthorized(fmt.Errorf("exchange call failed: %w", err))
	}

	info, err := oauth2Utils.FetchProviderUserInfo(ctx, s.OAuthConfig.Client(ctx, tok), s.UserInfoURL)
	if err != nil {
		return errdefs.Unauthorized(fmt.Errorf("failed to fetch userinfo: %w", err))
	}
	hlog.FromRequest(req).Debug().Str("sub", info.Sub).Msg("google user info fetched")

	user, err := s.Store.UpsertGoogleUser(ctx, info.Email, info.Sub, info.Name)
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to upsert google user: %w", err))
	}

	return s.startSession(ctx, rw, req, user)
}
