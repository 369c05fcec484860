package v1

import (
	"github.com/sagarsuperuser/useradmin/internal/router"
	"github.com/sagarsuperuser/useradmin/store"
)

type userRouter struct {
	backend *APIV1Service
	routes  []router.Route
}

// NewUserRouter initializes a router for user endpoints.
func NewUserRouter(svc *APIV1Service) router.Router {
	r := &userRouter{backend: svc}
	r.initRoutes()
	return r
}

func (ur *userRouter) Routes() []router.Route {
	return ur.routes
}

func (ur *userRouter) initRoutes() {
	adminOnly := router.CheckAuth(ur.backend.Auth, store.RoleAdmin)
	anyRole := router.CheckAuth(ur.backend.Auth)
	ur.routes = []router.Route{
		router.NewPostRoute("/user/register", ur.backend.CreateUser, router.ValidateBody[CreateUserReq]()),
		router.NewGetRoute("/user/", ur.backend.GetAllUserOrAgent, adminOnly),
		router.NewPatchRoute("/user/{id}/approve", ur.backend.ApproveAgent, adminOnly),
		router.NewPatchRoute("/user/{id}/suspend", ur.backend.SuspendAgent, adminOnly),
		router.NewGetRoute("/user/me", ur.backend.GetCurrentUser, anyRole),
	}
}
