package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sagarsuperuser/useradmin/store"
)

func (d *DB) CreateUser(ctx context.Context, in *store.CreateUser) (*store.UserInfo, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := d.now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (name, email, phone, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Email, in.Phone, in.Role, in.Status, now, now)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, store.ErrUserExists
		}
		return nil, err
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO auth_identities (user_id, provider, provider_subject, password_hash)
		VALUES (?, ?, ?, ?)
	`, userID, in.Provider, in.ProviderSubject, in.PasswordHash)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return d.getUser(ctx, userID)
}

func (d *DB) UpsertGoogleUser(ctx context.Context, email, sub, name string) (*store.UserInfo, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1) google sub already linked -> same user
	var userID int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id
		FROM auth_identities
		WHERE provider = 'google' AND provider_subject = ?
		FOR UPDATE
	`, sub).Scan(&userID)

	if err == nil {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return d.getUser(ctx, userID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// 2) sub not linked yet -> find user by email (lock if exists)
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM users
		WHERE email = ?
		FOR UPDATE
	`, email).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		now := d.now()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (name, email, role, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, name, email, store.RoleUser, store.StatusActive, now, now)
		if err != nil {
			return nil, err
		}
		userID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// 3) link google identity (idempotent)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO auth_identities (user_id, provider, provider_subject)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE updated_at = CURRENT_TIMESTAMP
	`, userID, store.ProviderGoogle, sub)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return d.getUser(ctx, userID)
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.UserInfo, error) {
	set, args := []string{}, []any{}
	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.Email; v != nil {
		set, args = append(set, "email = ?"), append(args, *v)
	}
	if v := update.Phone; v != nil {
		set, args = append(set, "phone = ?"), append(args, *v)
	}
	if v := update.Role; v != nil {
		set, args = append(set, "role = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}

	if len(set) > 0 {
		set, args = append(set, "updated_at = ?"), append(args, d.now())
		args = append(args, update.ID)
		query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = ?"
		if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
			if isDuplicateEntry(err) {
				return nil, store.ErrUserExists
			}
			return nil, err
		}
	}

	// fetch and return the updated user; a missing row surfaces as ErrUserNotFound
	return d.getUser(ctx, update.ID)
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.UserInfo, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "u.id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "u.email = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "u.role = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "u.status = ?"), append(args, *v)
	}

	query := `
		SELECT
		u.id,
		u.name,
		u.email,
		u.phone,
		u.role,
		u.status,
		ai.password_hash,
		u.created_at,
		u.updated_at
		FROM users u
		LEFT JOIN auth_identities ai ON ai.user_id = u.id AND ai.provider = 'local'
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY u.created_at DESC, u.id DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.UserInfo, 0)
	for rows.Next() {
		var (
			user         store.UserInfo
			phone        sql.NullString
			passwordHash sql.NullString
		)
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&phone,
			&user.Role,
			&user.Status,
			&passwordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			user.Phone = &phone.String
		}
		if passwordHash.Valid {
			user.PasswordHash = passwordHash.String
		}
		list = append(list, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) getUser(ctx context.Context, id int64) (*store.UserInfo, error) {
	list, err := d.ListUsers(ctx, &store.FindUser{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, store.ErrUserNotFound
	}

	return list[0], nil
}

func (d *DB) DeleteUser(ctx context.Context, delete *store.DeleteUser) (bool, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", delete.ID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
