package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page    int
	PerPage int
	Status  model.OrderStatus
	UserID  *int64
}

type OrderRepository interface {
	// Create inserts the order together with its lines.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
