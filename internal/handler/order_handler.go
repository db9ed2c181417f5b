package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderService interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (int64, error)
}

type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type checkoutRequest struct {
	CartID           int64  `json:"cart_id"`
	UserID           int64  `json:"user_id"`
	BillingAddress1  string `json:"billing_address1"`
	BillingAddress2  string `json:"billing_address2"`
	BillingCity      string `json:"billing_city"`
	BillingState     string `json:"billing_state"`
	BillingZip       int    `json:"billing_zip"`
	ShippingAddress1 string `json:"shipping_address1"`
	ShippingAddress2 string `json:"shipping_address2"`
	ShippingCity     string `json:"shipping_city"`
	ShippingState    string `json:"shipping_state"`
	ShippingZip      int    `json:"shipping_zip"`
	Contact          string `json:"contact"`
	PaymentToken     string `json:"payment_token"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/api/order", h.checkout, use(g.General)...)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	id, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{
		CartID: req.CartID,
		UserID: req.UserID,
		Billing: usecase.AddressInput{
			Address1: req.BillingAddress1,
			Address2: req.BillingAddress2,
			City:     req.BillingCity,
			State:    req.BillingState,
			Zip:      req.BillingZip,
		},
		Shipping: usecase.AddressInput{
			Address1: req.ShippingAddress1,
			Address2: req.ShippingAddress2,
			City:     req.ShippingCity,
			State:    req.ShippingState,
			Zip:      req.ShippingZip,
		},
		Contact:      req.Contact,
		PaymentToken: req.PaymentToken,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"order_id": id})
}
