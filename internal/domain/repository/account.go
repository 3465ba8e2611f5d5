package repository

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// AccountRepository describes persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, name, email, passwordHash string, role model.Role, shop string, startingBalance int64) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}
