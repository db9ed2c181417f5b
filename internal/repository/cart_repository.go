package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	// FindOpenByID loads an OPEN cart with its lines and their products.
	FindOpenByID(ctx context.Context, cartID int64) (model.Cart, error)
	// LockOpenByID selects an OPEN cart FOR UPDATE without relations.
	LockOpenByID(ctx context.Context, cartID int64) (model.Cart, error)
	FindLatestOpenByUserID(ctx context.Context, userID int64) (model.Cart, error)
	SetOwner(ctx context.Context, cartID, userID int64) error
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
}
