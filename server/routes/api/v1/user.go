package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/common"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
	"github.com/sagarsuperuser/useradmin/internal/router"
	"github.com/sagarsuperuser/useradmin/store"
)

const maxListLimit = 500

var ErrNotAnAgent = errors.New("target user is not an agent")

// CreateUser registers a local account. Agents wait in pending until an
// admin approves them.
func (s *APIV1Service) CreateUser(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	body, ok := router.BodyFromContext[CreateUserReq](ctx)
	if !ok {
		return errdefs.System(errors.New("register body missing from context"))
	}

	role := store.RoleUser
	status := store.StatusActive
	if body.Role == store.RoleAgent.String() {
		role = store.RoleAgent
		status = store.StatusPending
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to generate password hash: %w", err))
	}
	strHash := string(passwordHash)

	create := &store.CreateUser{
		Name:         body.Name,
		Email:        body.Email,
		Role:         role,
		Status:       status,
		Provider:     store.ProviderLocal,
		PasswordHash: &strHash,
	}
	if body.Phone != "" {
		create.Phone = &body.Phone
	}

	user, err := s.Store.CreateUser(ctx, create)
	if errors.Is(err, store.ErrUserExists) {
		return errdefs.Conflict(err)
	}
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to create user: %w", err))
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Stringer("role", user.Role).Msg("user registered")
	return httputil.WriteRawJSON(rw, http.StatusCreated, newUserResp(user))
}

// GetAllUserOrAgent lists users, optionally filtered by role and status.
func (s *APIV1Service) GetAllUserOrAgent(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	find, err := parseFindUser(req)
	if err != nil {
		return errdefs.InvalidParameter(err)
	}

	list, err := s.Store.ListUsers(ctx, find)
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to list users: %w", err))
	}

	return httputil.WriteRawJSON(rw, http.StatusOK, newUserListResp(list))
}

func parseFindUser(req *http.Request) (*store.FindUser, error) {
	q := req.URL.Query()
	find := &store.FindUser{}

	if v := q.Get("role"); v != "" {
		role := store.Role(v)
		if !role.Valid() {
			return nil, fmt.Errorf("invalid role %q", v)
		}
		find.Role = &role
	}
	if v := q.Get("status"); v != "" {
		status := store.UserStatus(v)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q", v)
		}
		find.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxListLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", maxListLimit)
		}
		find.Limit = &limit
	}

	return find, nil
}

// ApproveAgent activates a pending or suspended agent.
func (s *APIV1Service) ApproveAgent(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	return s.setAgentStatus(ctx, rw, vars, store.StatusActive)
}

// SuspendAgent suspends an agent.
func (s *APIV1Service) SuspendAgent(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	return s.setAgentStatus(ctx, rw, vars, store.StatusSuspended)
}

func (s *APIV1Service) setAgentStatus(ctx context.Context, rw http.ResponseWriter, vars map[string]string, status store.UserStatus) error {
	id, err := common.ParseID(vars["id"])
	if err != nil {
		return errdefs.InvalidParameter(err)
	}

	target, err := s.Store.GetUser(ctx, &store.FindUser{ID: &id})
	if errors.Is(err, store.ErrUserNotFound) {
		return errdefs.NotFound(err)
	}
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to load user %d: %w", id, err))
	}
	if target.Role != store.RoleAgent {
		return errdefs.InvalidParameter(ErrNotAnAgent)
	}

	user, err := s.Store.SetUserStatus(ctx, id, status)
	if errors.Is(err, store.ErrUserNotFound) {
		return errdefs.NotFound(err)
	}
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to update user %d: %w", id, err))
	}

	logger := zerolog.Ctx(ctx).Info().Int64("user_id", id).Str("status", string(status))
	if caller, ok := router.IdentityFromContext(ctx); ok {
		logger = logger.Int64("by", caller.UserID)
	}
	logger.Msg("agent status changed")

	return httputil.WriteRawJSON(rw, http.StatusOK, newUserResp(user))
}

// GetCurrentUser returns the caller's own record.
func (s *APIV1Service) GetCurrentUser(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
	caller, ok := router.IdentityFromContext(ctx)
	if !ok {
		return errdefs.Unauthorized(router.ErrNoCredentials)
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &caller.UserID})
	if errors.Is(err, store.ErrUserNotFound) {
		return errdefs.NotFound(err)
	}
	if err != nil {
		return errdefs.System(fmt.Errorf("failed to load user %d: %w", caller.UserID, err))
	}

	return httputil.WriteRawJSON(rw, http.StatusOK, newUserResp(user))
}
