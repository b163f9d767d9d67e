package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		err = mapError("insert user", err)
		if errors.Is(err, domain.ErrConflict) {
			return 0, domain.ErrUsernameTaken
		}
		return 0, err
	}
	return lastInsertID("insert user", result)
}

func (m *MySQLAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("query user", err)
	}
	return &u, nil
}
