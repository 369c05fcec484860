package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarsuperuser/useradmin/internal/router"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/server/httpstatus"
	"github.com/sagarsuperuser/useradmin/store"
)

func register(t *testing.T, svc *APIV1Service, body string) *UserResp {
	t.Helper()
	route := findRoute(t, NewUserRouter(svc), http.MethodPost, "/user/register")
	rec, err := call(route, jsonRequest(http.MethodPost, "/user/register", body), nil)
	require.NoError(t, err)
	resp := decode[UserResp](t, rec)
	return &resp
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionUtils.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthRoutes(t *testing.T) {
	svc := newTestService(t, newTestSettings())

	var got []string
	for _, r := range NewAuthRouter(svc).Routes() {
		got = append(got, r.Method()+" "+r.Path())
	}
	assert.Equal(t, []string{"POST /auth/login", "POST /auth/logout"}, got)

	s := newTestSettings()
	s.OAuth2ClientID = "id"
	s.OAuth2ClientSecret = "secret"
	s.OAuth2RedirectURL = "https://app.example/auth/google/callback"
	svc = newTestService(t, s)

	got = got[:0]
	for _, r := range NewAuthRouter(svc).Routes() {
		got = append(got, r.Method()+" "+r.Path())
	}
	assert.Equal(t, []string{
		"POST /auth/login",
		"POST /auth/logout",
		"GET /auth/google/login",
		"GET /auth/google/callback",
	}, got)
}

func TestLogIn(t *testing.T) {
	svc := newTestService(t, newTestSettings())
	login := findRoute(t, NewAuthRouter(svc), http.MethodPost, "/auth/login")
	me := findRoute(t, NewUserRouter(svc), http.MethodGet, "/user/me")

	registered := register(t, svc, `{"name":"Dina","email":"dina@example.com","password":"correct-horse"}`)

	t.Run("success", func(t *testing.T) {
		rec, err := call(login, jsonRequest(http.MethodPost, "/auth/login",
			`{"email":"DINA@example.com","password":"correct-horse"}`), nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)

		resp := decode[LoginResp](t, rec)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, registered.ID, resp.User.ID)

		// both credentials resolve to the same identity
		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		rec, err = call(me, req, nil)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, decode[UserResp](t, rec).ID)

		req = httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req.AddCookie(cookie)
		rec, err = call(me, req, nil)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, decode[UserResp](t, rec).ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := call(login, jsonRequest(http.MethodPost, "/auth/login",
			`{"email":"dina@example.com","password":"wrong-horse"}`), nil)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, http.StatusUnauthorized, httpstatus.FromError(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := call(login, jsonRequest(http.MethodPost, "/auth/login",
			`{"email":"nobody@example.com","password":"correct-horse"}`), nil)
		assert.Equal(t, http.StatusUnauthorized, httpstatus.FromError(err))
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := call(login, jsonRequest(http.MethodPost, "/auth/login", `{"email":"dina@example.com"}`), nil)
		var violation *router.SchemaViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "password", violation.Fields[0].Field)
	})

	t.Run("suspended", func(t *testing.T) {
		_, err := svc.Store.SetUserStatus(context.Background(), registered.ID, store.StatusSuspended)
		require.NoError(t, err)

		_, err = call(login, jsonRequest(http.MethodPost, "/auth/login",
			`{"email":"dina@example.com","password":"correct-horse"}`), nil)
		assert.ErrorIs(t, err, router.ErrAccountSuspended)
		assert.Equal(t, http.StatusForbidden, httpstatus.FromError(err))
	})
}

func TestLogInRateLimit(t *testing.T) {
	s := newTestSettings()
	s.LoginRateLimit = 0.001
	s.LoginRateBurst = 2
	svc := newTestService(t, s)
	login := findRoute(t, NewAuthRouter(svc), http.MethodPost, "/auth/login")

	body := `{"email":"eve@example.com","password":"guess"}`
	for range 2 {
		_, err := call(login, jsonRequest(http.MethodPost, "/auth/login", body), nil)
		assert.Equal(t, http.StatusUnauthorized, httpstatus.FromError(err))
	}

	rec, err := call(login, jsonRequest(http.MethodPost, "/auth/login", body), nil)
	assert.Equal(t, http.StatusTooManyRequests, httpstatus.FromError(err))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLogOut(t *testing.T) {
	svc := newTestService(t, newTestSettings())
	logout := findRoute(t, NewAuthRouter(svc), http.MethodPost, "/auth/logout")
	user := seedUser(t, svc, "fay@example.com", store.RoleUser, store.StatusActive)

	sess, err := svc.Store.CreateSession(context.Background(), user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionUtils.SessionCookieName, Value: sess.Token})
	rec, err := call(logout, req, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	_, err = svc.Store.GetActiveSessionByToken(context.Background(), sess.Token)
	assert.Error(t, err)

	// no cookie at all still succeeds
	rec, err = call(logout, httptest.NewRequest(http.MethodPost, "/auth/logout", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoogleLogin(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer provider-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"sub":"g-42","email":"gina@example.com","name":"Gina"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer provider.Close()

	s := newTestSettings()
	s.OAuth2ClientID = "id"
	s.OAuth2ClientSecret = "secret"
	s.OAuth2RedirectURL = "https://app.example/auth/google/callback"
	svc := newTestService(t, s)
	svc.OAuthConfig.Endpoint.TokenURL = provider.URL + "/token"
	svc.UserInfoURL = provider.URL + "/userinfo"

	ar := NewAuthRouter(svc)
	start := findRoute(t, ar, http.MethodGet, "/auth/google/login")
	callback := findRoute(t, ar, http.MethodGet, "/auth/google/callback")

	rec, err := call(start, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEmpty(t, location.Query().Get("code_challenge"))
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	tempCookies := rec.Result().Cookies()
	require.NotEmpty(t, tempCookies)

	t.Run("missing code", func(t *testing.T) {
		_, err := call(callback, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil), nil)
		assert.Equal(t, http.StatusBadRequest, httpstatus.FromError(err))
	})

	t.Run("state mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=forged", nil)
		for _, c := range tempCookies {
			req.AddCookie(c)
		}
		_, err := call(callback, req, nil)
		assert.Equal(t, http.StatusUnauthorized, httpstatus.FromError(err))
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state="+url.QueryEscape(state), nil)
		for _, c := range tempCookies {
			req.AddCookie(c)
		}
		rec, err := call(callback, req, nil)
		require.NoError(t, err)
		require.NotNil(t, sessionCookie(rec))

		resp := decode[LoginResp](t, rec)
		assert.Equal(t, "gina@example.com", resp.User.Email)
		assert.Equal(t, store.RoleUser, resp.User.Role)
		assert.Equal(t, store.StatusActive, resp.User.Status)
	})
}

func TestEnsureAdmin(t *testing.T) {
	s := newTestSettings()
	svc := newTestService(t, s)
	require.NoError(t, svc.EnsureAdmin(context.Background()))

	list, err := svc.Store.ListUsers(context.Background(), &store.FindUser{})
	require.NoError(t, err)
	assert.Empty(t, list)

	s.AdminEmail = "Root@Example.com"
	s.AdminPassword = "super-secret"
	require.NoError(t, svc.EnsureAdmin(context.Background()))
	require.NoError(t, svc.EnsureAdmin(context.Background()))

	role := store.RoleAdmin
	list, err = svc.Store.ListUsers(context.Background(), &store.FindUser{Role: &role})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "root@example.com", list[0].Email)
	assert.Equal(t, store.StatusActive, list[0].Status)
}
