package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	ListCapabilities(ctx context.Context, userID string) ([]string, error)
	GrantCapability(ctx context.Context, userID, codename string) error
}
