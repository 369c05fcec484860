package oauth2Utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarsuperuser/useradmin/server/settings"
)

func TestNewOAuth2Config(t *testing.T) {
	cfg := NewOAuth2Config(&settings.Settings{
		OAuth2ClientID:     "id",
		OAuth2ClientSecret: "secret",
		OAuth2RedirectURL:  "https://app.example/auth/google/callback",
	})
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "https://app.example/auth/google/callback", cfg.RedirectURL)
	assert.Contains(t, cfg.Scopes, "email")
}

func TestOAuthTempCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	state := GenerateState()
	require.NoError(t, SetOAuthTempCookie(rec, state, "verifier", 5*time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	tmp, err := ReadOAuthTempCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "verifier", tmp.Verifier)
	assert.NoError(t, tmp.CheckState(state))
	assert.ErrorIs(t, tmp.CheckState("forged"), ErrStateMismatch)
}

func TestReadOAuthTempCookieInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	_, err := ReadOAuthTempCookie(req)
	assert.Error(t, err)

	req.AddCookie(&http.Cookie{Name: OauthTempCookieName, Value: "%%%"})
	_, err = ReadOAuthTempCookie(req)
	assert.Error(t, err)
}

func TestClearOAuthTempCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearOAuthTempCookie(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestFetchProviderUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"sub":"123","email":"g@example.com","name":"G"}`))
		case "/noemail":
			_, _ = w.Write([]byte(`{"sub":"123"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	info, err := FetchProviderUserInfo(context.Background(), srv.Client(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "123", info.Sub)
	assert.Equal(t, "g@example.com", info.Email)

	_, err = FetchProviderUserInfo(context.Background(), srv.Client(), srv.URL+"/noemail")
	assert.Error(t, err)

	_, err = FetchProviderUserInfo(context.Background(), srv.Client(), srv.URL+"/denied")
	assert.Error(t, err)
}
