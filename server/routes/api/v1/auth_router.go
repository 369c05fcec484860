package v1

import "github.com/sagarsuperuser/useradmin/internal/router"

type authRouter struct {
	backend *APIV1Service
	routes  []router.Route
}

// NewAuthRouter initializes a router for auth-related endpoints.
func NewAuthRouter(svc *APIV1Service) router.Router {
	r := &authRouter{
		backend: svc,
	}
	r.initRoutes()
	return r
}

func (ar *authRouter) Routes() []router.Route {
	return ar.routes
}

func (ar *authRouter) initRoutes() {
	loginLimit := router.RateLimit(ar.backend.Settings.LoginRateLimit, ar.backend.Settings.LoginRateBurst)
	ar.routes = []router.Route{
		router.NewPostRoute("/auth/login", ar.backend.LogIn, loginLimit, router.ValidateBody[LoginReq]()),
		router.NewPostRoute("/auth/logout", ar.backend.LogOut),
	}
	if ar.backend.OAuthConfig != nil {
		ar.routes = append(ar.routes,
			router.NewGetRoute("/auth/google/login", ar.backend.GoogleLogin),
			router.NewGetRoute("/auth/google/callback", ar.backend.GoogleCallback),
		)
	}
}
