package store

import (
	"context"
	"crypto/sha256"
	"time"

	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
)

type SessionInfo struct {
	ID     int64
	UserID int64
	// SHA-256 hash of [Token]
	TokenHash [32]byte
	ExpiresAt time.Time
	RevokedAt *time.Time // nil - not revoked
	CreatedAt time.Time
	IsActive  bool
}

type CreateSessionResult struct {
	// Raw token to be sent to the browser as a cookie value
	Token string
	// DB session metadata
	Session SessionInfo
}

// CreateSession opens a new session for userID and returns its raw token.
func (s *Store) CreateSession(ctx context.Context, userID int64) (*CreateSessionResult, error) {
	token := sessionUtils.GenerateSessionID()
	hash := sha256.Sum256([]byte(token))

	session, err := s.driver.CreateSession(ctx, userID, hash)
	if err != nil {
		return nil, err
	}
	s.cacheSession(session)

	return &CreateSessionResult{
		Token:   token,
		Session: *session,
	}, nil
}

// GetActiveSessionByToken resolves a raw cookie token to a live session.
func (s *Store) GetActiveSessionByToken(ctx context.Context, token string) (*SessionInfo, error) {
	hash := sha256.Sum256([]byte(token))
	if sInfo, ok, err := s.cachedSession(hash); ok {
		return sInfo, err
	}

	sInfo, err := s.driver.GetActiveSessionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	sInfo.TokenHash = hash
	s.cacheSession(sInfo)
	return sInfo, nil
}

// GetActiveSession resolves a session id, as carried by an access token, to
// a live session.
func (s *Store) GetActiveSession(ctx context.Context, id int64) (*SessionInfo, error) {
	if v, ok := s.sessionIDs.Load(id); ok {
		if sInfo, ok, err := s.cachedSession(v.([32]byte)); ok {
			return sInfo, err
		}
		s.sessionIDs.Delete(id)
	}

	sInfo, err := s.driver.GetActiveSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSession(sInfo)
	return sInfo, nil
}

// RevokeSession expires the session identified by the raw token.
// It reports false when the session was already revoked or unknown.
func (s *Store) RevokeSession(ctx context.Context, token string) (bool, error) {
	hash := sha256.Sum256([]byte(token))
	s.sessionCache.Delete(hash)

	return s.driver.RevokeSession(ctx, hash)
}

// EndSession revokes an already resolved session, such as the one an access
// token is bound to.
func (s *Store) EndSession(ctx context.Context, sInfo *SessionInfo) (bool, error) {
	s.forgetSession(sInfo)

	return s.driver.RevokeSession(ctx, sInfo.TokenHash)
}
