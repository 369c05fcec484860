package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagarsuperuser/useradmin/store"
)

// EnsureAdmin creates the configured bootstrap admin unless the settings leave
// it unset or the email is already taken.
func (s *APIV1Service) EnsureAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.Settings.AdminEmail))
	if email == "" || s.Settings.AdminPassword == "" {
		return nil
	}

	_, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Settings.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	strHash := string(hash)

	user, err := s.Store.CreateUser(ctx, &store.CreateUser{
		Name:         "Administrator",
		Email:        email,
		Role:         store.RoleAdmin,
		Status:       store.StatusActive,
		Provider:     store.ProviderLocal,
		PasswordHash: &strHash,
	})
	if errors.Is(err, store.ErrUserExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("email", email).Msg("bootstrap admin created")
	return nil
}
