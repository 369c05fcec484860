package v1

import (
	"golang.org/x/oauth2"

	"github.com/sagarsuperuser/useradmin/internal/common"
	oauth2Utils "github.com/sagarsuperuser/useradmin/internal/oauth2"
	"github.com/sagarsuperuser/useradmin/internal/router"
	"github.com/sagarsuperuser/useradmin/server/settings"
	"github.com/sagarsuperuser/useradmin/store"
)

// APIV1Service holds shared dependencies for v1 routes.
type APIV1Service struct {
	Settings    *settings.Settings
	Store       *store.Store
	OAuthConfig *oauth2.Config
	Auth        *router.Authenticator

	// UserInfoURL is queried with the provider token after the oauth2 exchange.
	UserInfoURL string
	now         common.NowFunc
}

func NewAPIV1Service(s *settings.Settings, store *store.Store) *APIV1Service {
	svc := &APIV1Service{
		Settings:    s,
		Store:       store,
		Auth:        router.NewAuthenticator(store, s.SecretKey),
		UserInfoURL: oauth2Utils.GoogleUserInfoEndpoint,
		now:         common.NowUTC,
	}
	if s.OAuth2Enabled() {
		svc.OAuthConfig = oauth2Utils.NewOAuth2Config(s)
	}
	return svc
}
