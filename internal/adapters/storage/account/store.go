package account

import (
	"context"

	domain "studio/internal/domain/account"
)

// Key is the kv key holding the user list.
const Key = "users"

// Store persists Account state.
type Store interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Role domain.Role
}
