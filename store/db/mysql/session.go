package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
	"github.com/sagarsuperuser/useradmin/store"
)

// activeSessionQuery selects live sessions only; callers append the key filter.
const activeSessionQuery = `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE revoked_at IS NULL
		AND expires_at > ?
		AND `

func (d *DB) CreateSession(ctx context.Context, userID int64, hash [32]byte) (*store.SessionInfo, error) {
	now := d.now()
	expiresAt := now.Add(sessionUtils.SessionDuration)

	res, err := d.db.ExecContext(ctx, `
			INSERT INTO sessions (user_id, token_hash, expires_at, created_at)
			VALUES (?, ?, ?, ?)
	`, userID, hash[:], expiresAt, now)
	if err != nil {
		return nil, fmt.Errorf("insert session for user %d: %w", userID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &store.SessionInfo{
		ID:        id,
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		IsActive:  true,
	}, nil
}

func (d *DB) GetActiveSessionByHash(ctx context.Context, hash [32]byte) (*store.SessionInfo, error) {
	return d.getActiveSession(ctx, "token_hash = ?", hash[:])
}

// GetActiveSessionByID backs access tokens, which carry the session id.
func (d *DB) GetActiveSessionByID(ctx context.Context, id int64) (*store.SessionInfo, error) {
	return d.getActiveSession(ctx, "id = ?", id)
}

func (d *DB) getActiveSession(ctx context.Context, filter string, key any) (*store.SessionInfo, error) {
	var (
		s    store.SessionInfo
		hash []byte
	)
	err := d.db.QueryRowContext(ctx, activeSessionQuery+filter+" LIMIT 1", d.now(), key).Scan(
		&s.ID,
		&s.UserID,
		&hash,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sessionUtils.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if len(hash) != len(s.TokenHash) {
		return nil, fmt.Errorf("session %d has a malformed token hash", s.ID)
	}

	copy(s.TokenHash[:], hash)
	s.IsActive = true
	return &s, nil
}

// RevokeSession reports false when the session was already revoked or unknown.
func (d *DB) RevokeSession(ctx context.Context, hash [32]byte) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE sessions
		SET revoked_at = ?
		WHERE token_hash = ? AND revoked_at IS NULL
	`, d.now(), hash[:])
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
