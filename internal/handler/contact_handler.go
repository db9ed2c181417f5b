package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ContactService interface {
	Send(ctx context.Context, in usecase.ContactInput) error
}

type ContactHandler struct {
	uc ContactService
}

func NewContactHandler(uc ContactService) *ContactHandler {
	return &ContactHandler{uc: uc}
}

type contactRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Subject   string `json:"subject"`
	OrderID   string `json:"order_id"`
	Message   string `json:"message"`
}

func (h *ContactHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/api/contactus", h.send, use(g.Strict)...)
}

func (h *ContactHandler) send(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	err := h.uc.Send(c.Request().Context(), usecase.ContactInput{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Subject:   req.Subject,
		OrderID:   req.OrderID,
		Message:   req.Message,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: usecase.MsgContactSent})
}
