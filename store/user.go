package store

import (
	"context"
	"errors"
	"time"
)

// Role is the type of a role.
type Role string

const (
	// RoleAdmin is the ADMIN role.
	RoleAdmin Role = "ADMIN"
	// RoleAgent is the AGENT role. Agents need admin approval before they are active.
	RoleAgent Role = "AGENT"
	// RoleUser is the USER role.
	RoleUser Role = "USER"
)

func (e Role) String() string {
	switch e {
	case RoleAdmin:
		return "ADMIN"
	case RoleAgent:
		return "AGENT"
	case RoleUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether e is one of the known roles.
func (e Role) Valid() bool {
	return e.String() != "UNKNOWN"
}

type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderLocal  Provider = "local"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this email already exists")
)

type CreateUser struct {
	Name            string
	Email           string
	Phone           *string
	Role            Role
	Status          UserStatus
	Provider        Provider
	ProviderSubject *string
	PasswordHash    *string
}

type UpdateUser struct {
	ID     int64
	Name   *string
	Email  *string
	Phone  *string
	Role   *Role
	Status *UserStatus
}

type UserInfo struct {
	ID     int64
	Name   string
	Email  string
	Phone  *string
	Role   Role
	Status UserStatus
	// PasswordHash is empty for users without a local identity.
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FindUser struct {
	ID     *int64
	Email  *string
	Role   *Role
	Status *UserStatus

	// The maximum number of users to return.
	Limit *int
}

type DeleteUser struct {
	ID int64
}

func (s *Store) CreateUser(ctx context.Context, create *CreateUser) (*UserInfo, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}

	s.userCache.Store(user.ID, user)
	return user, nil
}

// UpsertGoogleUser returns the user linked to the google subject, linking or
// creating one by email when needed.
func (s *Store) UpsertGoogleUser(ctx context.Context, email, sub, name string) (*UserInfo, error) {
	user, err := s.driver.UpsertGoogleUser(ctx, email, sub, name)
	if err != nil {
		return nil, err
	}

	s.userCache.Store(user.ID, user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*UserInfo, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}

	s.userCache.Store(user.ID, user)
	return user, nil
}

// SetUserStatus moves a user to the given status.
func (s *Store) SetUserStatus(ctx context.Context, id int64, status UserStatus) (*UserInfo, error) {
	return s.UpdateUser(ctx, &UpdateUser{ID: id, Status: &status})
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*UserInfo, error) {
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}

	for _, user := range list {
		s.userCache.Store(user.ID, user)
	}
	return list, nil
}

// GetUser returns the first user matching find, or ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*UserInfo, error) {
	if find.ID != nil {
		if cache, ok := s.userCache.Load(*find.ID); ok {
			return cache.(*UserInfo), nil
		}
	}

	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrUserNotFound
	}

	return list[0], nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) (bool, error) {
	s.userCache.Delete(delete.ID)
	return s.driver.DeleteUser(ctx, delete)
}
