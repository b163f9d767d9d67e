package port

import (
	"context"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

type UserRepository interface {
	// CreateUser stores a user, ErrUsernameTaken if the name exists
	CreateUser(ctx context.Context, user domain.User) (int64, error)

	// GetUserByUsername returns nil when no such user exists
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
