package usecase

import (
	"context"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"go.uber.org/zap"
)

// OrderAdminUsecase lets staff browse orders and move them to COMPLETE.
type OrderAdminUsecase struct {
	orders repo.OrderRepository
	log    *zap.Logger
}

func NewOrderAdminUsecase(orders repo.OrderRepository, log *zap.Logger) *OrderAdminUsecase {
	return &OrderAdminUsecase{orders: orders, log: log}
}

type OrderListInput struct {
	Page    int
	PerPage int
	Status  string
	UserID  *int64
}

type OrderListOutput struct {
	Orders  []OrderOutput `json:"orders"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

func (u *OrderAdminUsecase) List(ctx context.Context, in OrderListInput) (OrderListOutput, error) {
	page, perPage := adminPaging(in.Page, in.PerPage)

	status := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if status != "" && !status.Valid() {
		return OrderListOutput{}, InvalidArgument("status must be NEW or COMPLETE")
	}

	orders, total, err := u.orders.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:    page,
		PerPage: perPage,
		Status:  status,
		UserID:  in.UserID,
	})
	if err != nil {
		return OrderListOutput{}, internal(ctx, u.log, "OrderAdminUsecase.List", err)
	}
	return OrderListOutput{Orders: toOrderOutputs(orders), Total: total, Page: page, PerPage: perPage}, nil
}

func (u *OrderAdminUsecase) Get(ctx context.Context, id int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, id)
	if err != nil {
		return OrderOutput{}, notFoundOr(ctx, u.log, "OrderAdminUsecase.Get", err, orderName(id))
	}
	return toOrderOutput(o), nil
}

func (u *OrderAdminUsecase) SetStatus(ctx context.Context, id int64, status string) (OrderOutput, error) {
	s := model.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.Valid() {
		return OrderOutput{}, InvalidArgument("status must be NEW or COMPLETE")
	}
	if err := u.orders.UpdateStatus(ctx, id, s); err != nil {
		return OrderOutput{}, notFoundOr(ctx, u.log, "OrderAdminUsecase.SetStatus", err, orderName(id))
	}
	return u.Get(ctx, id)
}
