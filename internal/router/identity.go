package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sagarsuperuser/useradmin/errdefs"
	jwtUtils "github.com/sagarsuperuser/useradmin/internal/jwt"
	"github.com/sagarsuperuser/useradmin/store"
)

var (
	// ErrNoCredentials is returned when the request carries neither a bearer
	// token nor a session cookie.
	ErrNoCredentials = errors.New("authentication required")
	// ErrUnknownUser is returned when valid credentials name a deleted user.
	ErrUnknownUser = errors.New("authenticated user no longer exists")
)

// Identity is the caller resolved from the request credentials.
type Identity struct {
	UserID int64
	Email  string
	Role   store.Role
	Status store.UserStatus
	// Session is the live session behind the cookie or the access token.
	Session *store.SessionInfo
}

// identityContextKey is unexported to avoid collisions.
type identityContextKey struct{}

// IdentityFromContext retrieves the identity attached by CheckAuth.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityResolver turns request credentials into an Identity. Failures are
// classified errors: Unauthorized when no valid identity is present.
type IdentityResolver interface {
	Resolve(ctx context.Context, req *http.Request) (*Identity, error)
}

// ResolverFunc adapts a function to IdentityResolver.
type ResolverFunc func(ctx context.Context, req *http.Request) (*Identity, error)

func (f ResolverFunc) Resolve(ctx context.Context, req *http.Request) (*Identity, error) {
	return f(ctx, req)
}

// IdentityStore is the part of the store identity resolution reads.
type IdentityStore interface {
	GetActiveSessionByToken(ctx context.Context, token string) (*store.SessionInfo, error)
	GetActiveSession(ctx context.Context, id int64) (*store.SessionInfo, error)
	GetUser(ctx context.Context, find *store.FindUser) (*store.UserInfo, error)
}

// Authenticator resolves identities from a bearer access token or, when the
// request has no Authorization header, from the session cookie. Either way
// the session must still be live, and the user row is always re-read so
// role and status changes apply immediately.
type Authenticator struct {
	store  IdentityStore
	secret string
}

func NewAuthenticator(store IdentityStore, secret string) *Authenticator {
	return &Authenticator{store: store, secret: secret}
}

func (a *Authenticator) Resolve(ctx context.Context, req *http.Request) (*Identity, error) {
	var (
		session *store.SessionInfo
		err     error
	)
	if jwtUtils.HasBearerToken(req) {
		session, err = a.sessionFromJWT(ctx, req)
	} else {
		session, err = a.sessionFromCookie(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	userID := session.UserID

	user, err := a.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, errdefs.Unauthorized(ErrUnknownUser)
	}
	if err != nil {
		return nil, errdefs.System(fmt.Errorf("failed to load user %d: %w", userID, err))
	}

	return &Identity{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Status:  user.Status,
		Session: session,
	}, nil
}
