package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

type UserListFilter struct {
	Page    int
	PerPage int
	Email   string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindActiveByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, f UserListFilter) ([]model.User, int64, error)
}
