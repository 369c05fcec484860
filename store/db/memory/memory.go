// Package memory is a store driver keeping everything in process memory.
// It backs the "memory" driver setting for local runs and the tests of the
// packages above the store.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/sagarsuperuser/useradmin/internal/common"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/store"
)

type identity struct {
	provider store.Provider
	subject  string
}

type DB struct {
	mu         sync.Mutex
	now        common.NowFunc
	users      map[int64]*store.UserInfo
	identities map[int64][]identity
	sessions   map[[32]byte]*store.SessionInfo
	nextUser   int64
	nextSess   int64
}

func NewDB(now common.NowFunc) store.Driver {
	return &DB{
		now:        now,
		users:      make(map[int64]*store.UserInfo),
		identities: make(map[int64][]identity),
		sessions:   make(map[[32]byte]*store.SessionInfo),
	}
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) CreateUser(ctx context.Context, in *store.CreateUser) (*store.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findByEmailLocked(in.Email) != nil {
		return nil, store.ErrUserExists
	}

	now := d.now()
	d.nextUser++
	user := &store.UserInfo{
		ID:        d.nextUser,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      in.Role,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PasswordHash != nil {
		user.PasswordHash = *in.PasswordHash
	}
	d.users[user.ID] = user

	ident := identity{provider: in.Provider}
	if in.ProviderSubject != nil {
		ident.subject = *in.ProviderSubject
	}
	d.identities[user.ID] = append(d.identities[user.ID], ident)

	return copyUser(user), nil
}

func (d *DB) UpsertGoogleUser(ctx context.Context, email, sub, name string) (*store.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for userID, idents := range d.identities {
		for _, ident := range idents {
			if ident.provider == store.ProviderGoogle && ident.subject == sub {
				return copyUser(d.users[userID]), nil
			}
		}
	}

	user := d.findByEmailLocked(email)
	if user == nil {
		now := d.now()
		d.nextUser++
		user = &store.UserInfo{
			ID:        d.nextUser,
			Name:      name,
			Email:     email,
			Role:      store.RoleUser,
			Status:    store.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.users[user.ID] = user
	}
	d.identities[user.ID] = append(d.identities[user.ID], identity{provider: store.ProviderGoogle, subject: sub})

	return copyUser(user), nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[update.ID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if v := update.Email; v != nil && !strings.EqualFold(*v, user.Email) {
		if d.findByEmailLocked(*v) != nil {
			return nil, store.ErrUserExists
		}
		user.Email = *v
	}
	if v := update.Name; v != nil {
		user.Name = *v
	}
	if v := update.Phone; v != nil {
		user.Phone = v
	}
	if v := update.Role; v != nil {
		user.Role = *v
	}
	if v := update.Status; v != nil {
		user.Status = *v
	}
	user.UpdatedAt = d.now()

	return copyUser(user), nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := make([]*store.UserInfo, 0, len(d.users))
	for _, user := range d.users {
		if v := find.ID; v != nil && user.ID != *v {
			continue
		}
		if v := find.Email; v != nil && !strings.EqualFold(user.Email, *v) {
			continue
		}
		if v := find.Role; v != nil && user.Role != *v {
			continue
		}
		if v := find.Status; v != nil && user.Status != *v {
			continue
		}
		list = append(list, copyUser(user))
	}

	// newest first, like the SQL driver
	slices.SortFunc(list, func(a, b *store.UserInfo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	if v := find.Limit; v != nil && *v >= 0 && len(list) > *v {
		list = list[:*v]
	}
	return list, nil
}

func (d *DB) DeleteUser(ctx context.Context, del *store.DeleteUser) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[del.ID]; !ok {
		return false, nil
	}
	delete(d.users, del.ID)
	delete(d.identities, del.ID)
	return true, nil
}

func (d *DB) CreateSession(ctx context.Context, userID int64, hash [32]byte) (*store.SessionInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.nextSess++
	session := &store.SessionInfo{
		ID:        d.nextSess,
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: now.Add(sessionUtils.SessionDuration),
		CreatedAt: now,
		IsActive:  true,
	}
	d.sessions[hash] = session

	cp := *session
	return &cp, nil
}

func (d *DB) GetActiveSessionByHash(ctx context.Context, hash [32]byte) (*store.SessionInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.activeLocked(d.sessions[hash])
}

func (d *DB) GetActiveSessionByID(ctx context.Context, id int64) (*store.SessionInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, session := range d.sessions {
		if session.ID == id {
			return d.activeLocked(session)
		}
	}
	return nil, sessionUtils.ErrSessionExpired
}

func (d *DB) activeLocked(session *store.SessionInfo) (*store.SessionInfo, error) {
	if session == nil || session.RevokedAt != nil || !session.ExpiresAt.After(d.now()) {
		return nil, sessionUtils.ErrSessionExpired
	}

	cp := *session
	return &cp, nil
}

func (d *DB) RevokeSession(ctx context.Context, hash [32]byte) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, ok := d.sessions[hash]
	if !ok || session.RevokedAt != nil {
		return false, nil
	}
	now := d.now()
	session.RevokedAt = &now
	session.IsActive = false
	return true, nil
}

func (d *DB) findByEmailLocked(email string) *store.UserInfo {
	for _, user := range d.users {
		if strings.EqualFold(user.Email, email) {
			return user
		}
	}
	return nil
}

func copyUser(u *store.UserInfo) *store.UserInfo {
	cp := *u
	if u.Phone != nil {
		phone := *u.Phone
		cp.Phone = &phone
	}
	return &cp
}
