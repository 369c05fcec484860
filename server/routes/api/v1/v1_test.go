package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagarsuperuser/useradmin/internal/common"
	jwtUtils "github.com/sagarsuperuser/useradmin/internal/jwt"
	"github.com/sagarsuperuser/useradmin/internal/router"
	"github.com/sagarsuperuser/useradmin/server/settings"
	"github.com/sagarsuperuser/useradmin/store"
	"github.com/sagarsuperuser/useradmin/store/db/memory"
)

const testSecret = "test-secret"

func newTestSettings() *settings.Settings {
	return &settings.Settings{
		SecretKey:      testSecret,
		LoginRateLimit: 0,
	}
}

func newTestService(t *testing.T, s *settings.Settings) *APIV1Service {
	t.Helper()
	st := store.New(memory.NewDB(common.NowUTC), common.NowUTC)
	t.Cleanup(func() { st.Close() })
	return NewAPIV1Service(s, st)
}

func findRoute(t *testing.T, r router.Router, method, path string) router.Route {
	t.Helper()
	for _, route := range r.Routes() {
		if route.Method() == method && route.Path() == path {
			return route
		}
	}
	t.Fatalf("no route %s %s", method, path)
	return nil
}

// call runs a route's full wrapper chain and handler against req.
func call(route router.Route, req *http.Request, vars map[string]string) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	if vars == nil {
		vars = map[string]string{}
	}
	err := route.Handler()(req.Context(), rec, req, vars)
	return rec, err
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedUser(t *testing.T, svc *APIV1Service, email string, role store.Role, status store.UserStatus) *store.UserInfo {
	t.Helper()
	user, err := svc.Store.CreateUser(context.Background(), &store.CreateUser{
		Name:     "Test " + string(role),
		Email:    email,
		Role:     role,
		Status:   status,
		Provider: store.ProviderLocal,
	})
	require.NoError(t, err)
	return user
}

func bearerFor(t *testing.T, svc *APIV1Service, user *store.UserInfo) string {
	t.Helper()
	sess, err := svc.Store.CreateSession(context.Background(), user.ID)
	require.NoError(t, err)
	token, err := jwtUtils.GenerateAccessToken(user.Email, user.Role.String(), user.ID, sess.Session.ID, []byte(testSecret), common.NowUTC())
	require.NoError(t, err)
	return "Bearer " + token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
