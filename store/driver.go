package store

import (
	"context"
)

// Driver is the persistence behind Store. The mysql driver backs production
// and the memory driver backs tests and DRIVER=memory.
type Driver interface {
	Close() error

	// CreateUser fails with ErrUserExists when the email is taken, compared
	// case-insensitively.
	CreateUser(ctx context.Context, create *CreateUser) (*UserInfo, error)
	UpsertGoogleUser(ctx context.Context, email, sub, name string) (*UserInfo, error)
	// ListUsers returns newest users first.
	ListUsers(ctx context.Context, find *FindUser) ([]*UserInfo, error)
	// UpdateUser fails with ErrUserNotFound for an unknown id.
	UpdateUser(ctx context.Context, update *UpdateUser) (*UserInfo, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) (bool, error)

	// Sessions are keyed by the sha256 of their raw token. The lookups return
	// sessionUtils.ErrSessionExpired unless the session is unrevoked and
	// unexpired.
	CreateSession(ctx context.Context, userID int64, hash [32]byte) (*SessionInfo, error)
	GetActiveSessionByHash(ctx context.Context, hash [32]byte) (*SessionInfo, error)
	GetActiveSessionByID(ctx context.Context, id int64) (*SessionInfo, error)
	RevokeSession(ctx context.Context, hash [32]byte) (bool, error)
}
