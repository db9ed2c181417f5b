package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderUsecase is the checkout engine.
type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	payments PaymentGateway
	clock    Clock
	log      *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	payments PaymentGateway,
	clock Clock,
	log *zap.Logger,
) *OrderUsecase {
	if payments == nil {
		payments = AcceptAllGateway{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &OrderUsecase{tx: tx, orders: orders, payments: payments, clock: clock, log: log}
}

type AddressInput struct {
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      int
}

type CheckoutInput struct {
	CartID       int64
	UserID       int64
	Billing      AddressInput
	Shipping     AddressInput
	Contact      string
	PaymentToken string
}

type OrderLineOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	Status    string            `json:"status"`
	Billing   model.Address     `json:"billing"`
	Shipping  model.Address     `json:"shipping"`
	Contact   string            `json:"contact"`
	Total     decimal.Decimal   `json:"total"`
	UserID    *int64            `json:"user_id"`
	CreatedAt time.Time         `json:"date_created"`
	Lines     []OrderLineOutput `json:"order_lines"`
}

func (in CheckoutInput) validate() error {
	if in.CartID <= 0 {
		return InvalidArgument("cart_id is required")
	}
	if err := in.Billing.validate("billing"); err != nil {
		return err
	}
	if err := in.Shipping.validate("shipping"); err != nil {
		return err
	}
	if strings.TrimSpace(in.Contact) == "" {
		return InvalidArgument("contact is required")
	}
	return nil
}

func (a AddressInput) validate(prefix string) error {
	switch {
	case strings.TrimSpace(a.Address1) == "":
		return InvalidArgument(prefix + "_address1 is required")
	case strings.TrimSpace(a.City) == "":
		return InvalidArgument(prefix + "_city is required")
	case strings.TrimSpace(a.State) == "":
		return InvalidArgument(prefix + "_state is required")
	case a.Zip <= 0:
		return InvalidArgument(prefix + "_zip is required")
	}
	return nil
}

func (a AddressInput) toModel() model.Address {
	return model.Address{
		Address1: strings.TrimSpace(a.Address1),
		Address2: strings.TrimSpace(a.Address2),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Zip:      a.Zip,
	}
}

// Checkout turns an OPEN cart into a NEW order and closes the cart.
// Names and prices are copied so later catalog edits do not touch the order.
func (u *OrderUsecase) Checkout(ctx context.Context, in CheckoutInput) (int64, error) {
	const method = "OrderUsecase.Checkout"

	if err := in.validate(); err != nil {
		return 0, err
	}

	var orderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().LockOpenByID(ctx, in.CartID); err != nil {
			return notFoundOr(ctx, u.log, method, err, cartName(in.CartID))
		}

		lines, err := r.CartLines().ListByCartID(ctx, in.CartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return InvalidArgument(MsgCartEmpty)
		}

		order := model.Order{
			Status:    model.OrderStatusNew,
			Billing:   in.Billing.toModel(),
			Shipping:  in.Shipping.toModel(),
			Contact:   strings.TrimSpace(in.Contact),
			CreatedAt: u.clock.Now(),
			Lines:     make([]model.OrderLine, 0, len(lines)),
		}

		total := decimal.Zero
		for _, cl := range lines {
			// inactive and soft-deleted products are still snapshotted
			p, err := r.Products().FindIncludingDeleted(ctx, cl.ProductID)
			if err != nil {
				return notFoundOr(ctx, u.log, method, err, productName(cl.ProductID))
			}
			ol := model.OrderLine{
				ProductID:   p.ID,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    cl.Quantity,
			}
			total = total.Add(ol.Subtotal())
			order.Lines = append(order.Lines, ol)
		}
		order.Total = total

		if in.UserID > 0 {
			user, err := r.Users().FindByID(ctx, in.UserID)
			switch {
			case err == nil:
				order.UserID = &user.ID
			case errors.Is(err, repo.ErrNotFound):
				// unknown users check out anonymously
			default:
				return err
			}
		}

		if err := u.payments.Charge(ctx, in.PaymentToken, total); err != nil {
			logWarn(ctx, u.log, method, "payment declined", err)
			return InvalidArgument("Payment was declined")
		}

		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}
		if err := r.Carts().UpdateStatus(ctx, in.CartID, model.CartStatusClosed); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, passThrough(ctx, u.log, method, err)
	}
	return orderID, nil
}

// ListUserOrders returns the orders of userID, newest first. Users only see their own.
func (u *OrderUsecase) ListUserOrders(ctx context.Context, requesterID, userID int64) ([]OrderOutput, error) {
	if requesterID <= 0 || requesterID != userID {
		return nil, Unauthorized("You can only view your own orders")
	}
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internal(ctx, u.log, "OrderUsecase.ListUserOrders", err)
	}
	return toOrderOutputs(orders), nil
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}

func toOrderOutput(o model.Order) OrderOutput {
	lines := make([]OrderLineOutput, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineOutput{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal(),
		})
	}
	return OrderOutput{
		ID:        o.ID,
		Status:    string(o.Status),
		Billing:   o.Billing,
		Shipping:  o.Shipping,
		Contact:   o.Contact,
		Total:     o.Total,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		Lines:     lines,
	}
}
