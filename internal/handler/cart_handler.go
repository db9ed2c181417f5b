package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CartService interface {
	Create(ctx context.Context, ownerID int64) (int64, error)
	Get(ctx context.Context, cartID int64) (usecase.CartOutput, error)
	UpsertLine(ctx context.Context, cartID, productID int64) (usecase.CartLineOutput, error)
	SetLineQuantity(ctx context.Context, cartID, lineID, qty int64) (usecase.CartLineOutput, error)
	RemoveLine(ctx context.Context, cartID, lineID int64) (int64, error)
	Merge(ctx context.Context, in usecase.MergeCartsInput) (usecase.CartOutput, error)
}

// /api/cart
type CartHandler struct {
	uc CartService
}

func NewCartHandler(uc CartService) *CartHandler {
	return &CartHandler{uc: uc}
}

type createCartRequest struct {
	UserID int64 `json:"user_id"`
}

type upsertLineRequest struct {
	ProductID int64 `json:"product_id"`
}

type setQuantityRequest struct {
	CartLineID int64  `json:"cartline_id"`
	Quantity   *int64 `json:"quantity"`
}

type removeLineRequest struct {
	CartLineID int64 `json:"cartline_id"`
}

type mergeCartsRequest struct {
	FromCartID int64  `json:"from_cart_id"`
	ToCartID   *int64 `json:"to_cart_id"`
	UserID     int64  `json:"user_id"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	cart := e.Group("/api/cart", use(g.General)...)

	cart.POST("", h.create)
	cart.POST("/merge", h.merge)
	cart.GET("/:id", h.get)
	cart.PATCH("/:id", h.upsertLine)
	cart.PUT("/:id", h.setQuantity)
	cart.DELETE("/:id", h.removeLine)
}

func (h *CartHandler) create(c echo.Context) error {
	var req createCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	id, err := h.uc.Create(c.Request().Context(), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"cart_id": id})
}

func (h *CartHandler) get(c echo.Context) error {
	cartID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid cart id")
	}

	out, err := h.uc.Get(c.Request().Context(), cartID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": out})
}

func (h *CartHandler) upsertLine(c echo.Context) error {
	cartID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid cart id")
	}
	var req upsertLineRequest
	if err := c.Bind(&req); err != nil || req.ProductID <= 0 {
		return badRequest(c, "product_id is required")
	}

	out, err := h.uc.UpsertLine(c.Request().Context(), cartID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cartline": out})
}

func (h *CartHandler) setQuantity(c echo.Context) error {
	cartID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid cart id")
	}
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil || req.CartLineID <= 0 || req.Quantity == nil {
		return badRequest(c, "cartline_id and quantity are required")
	}

	out, err := h.uc.SetLineQuantity(c.Request().Context(), cartID, req.CartLineID, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cartline": out})
}

func (h *CartHandler) removeLine(c echo.Context) error {
	cartID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid cart id")
	}
	var req removeLineRequest
	if err := c.Bind(&req); err != nil || req.CartLineID <= 0 {
		return badRequest(c, "cartline_id is required")
	}

	id, err := h.uc.RemoveLine(c.Request().Context(), cartID, req.CartLineID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"cartline_id": id})
}

func (h *CartHandler) merge(c echo.Context) error {
	var req mergeCartsRequest
	if err := c.Bind(&req); err != nil || req.FromCartID <= 0 || req.UserID <= 0 {
		return badRequest(c, "from_cart_id and user_id are required")
	}

	out, err := h.uc.Merge(c.Request().Context(), usecase.MergeCartsInput{
		FromCartID: req.FromCartID,
		ToCartID:   req.ToCartID,
		UserID:     req.UserID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": out})
}
