package port

import (
	"context"

	"pizzeria/internal/core/domain"
)

type UserRepository interface {
	// Create persists a new user and returns its id. Fails with
	// domain.ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, u domain.User) (int64, error)

	// ByUsername fails with domain.ErrUnknownUser if absent.
	ByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateNickname fails with domain.ErrUnknownUser if absent.
	UpdateNickname(ctx context.Context, username, nickname string) error
}
