package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

type CartLineRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartLine, error)
	// FindForUpdate locks the (cart, product) line.
	FindForUpdate(ctx context.Context, cartID, productID int64) (model.CartLine, error)
	FindInCart(ctx context.Context, cartID, lineID int64) (model.CartLine, error)
	AddLine(ctx context.Context, line *model.CartLine) error
	UpdateQuantity(ctx context.Context, lineID, qty int64) error
	MoveToCart(ctx context.Context, lineID, cartID int64) error
	DeleteLine(ctx context.Context, lineID int64) error
}
