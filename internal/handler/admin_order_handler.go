package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderAdminService interface {
	List(ctx context.Context, in usecase.OrderListInput) (usecase.OrderListOutput, error)
	Get(ctx context.Context, id int64) (usecase.OrderOutput, error)
	SetStatus(ctx context.Context, id int64, status string) (usecase.OrderOutput, error)
}

// /admin/api/orders
type AdminOrderHandler struct {
	uc OrderAdminService
}

func NewAdminOrderHandler(uc OrderAdminService) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	orders := e.Group("/admin/api/orders", use(g.Access, g.BackOffice)...)

	orders.GET("", h.list)
	orders.GET("/:id", h.get)
	orders.PUT("/:id/status", h.setStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, perPage, ok := paging(c, 1)
	if !ok {
		return badRequest(c, "page and per_page must be non-negative integers")
	}

	in := usecase.OrderListInput{Page: page, PerPage: perPage, Status: c.QueryParam("status")}
	if v := c.QueryParam("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || userID <= 0 {
			return badRequest(c, "invalid user_id")
		}
		in.UserID = &userID
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) setStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
