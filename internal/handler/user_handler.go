package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/middleware"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, in usecase.LoginInput) (usecase.LoginOutput, error)
	Refresh(ctx context.Context, userID int64) (usecase.RefreshOutput, error)
	Revoke(ctx context.Context, claims *auth.Claims) (string, error)
}

type UserOrderService interface {
	ListUserOrders(ctx context.Context, requesterID, userID int64) ([]usecase.OrderOutput, error)
}

// /api/user
type UserHandler struct {
	auth   AuthService
	orders UserOrderService
}

func NewUserHandler(auth AuthService, orders UserOrderService) *UserHandler {
	return &UserHandler{auth: auth, orders: orders}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	user := e.Group("/api/user")

	user.POST("", h.register, use(g.Strict)...)
	user.POST("/login", h.login, use(g.Strict)...)
	user.POST("/refresh", h.refresh, use(g.Strict, g.Refresh)...)
	user.POST("/revoke-access", h.revoke, use(g.Access)...)
	user.POST("/revoke-refresh", h.revoke, use(g.Refresh)...)
	user.GET("/:id/orders", h.listOrders, use(g.Access)...)
}

func (h *UserHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	err := h.auth.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: usecase.MsgRegistered})
}

func (h *UserHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.auth.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// refresh runs behind the refresh token guard.
func (h *UserHandler) refresh(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}

	out, err := h.auth.Refresh(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// revoke serves both logout routes. The guard decides which token type is presented.
func (h *UserHandler) revoke(c echo.Context) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}

	msg, err := h.auth.Revoke(c.Request().Context(), claims)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *UserHandler) listOrders(c echo.Context) error {
	requesterID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	orders, err := h.orders.ListUserOrders(c.Request().Context(), requesterID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}
