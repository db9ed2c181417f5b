package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ActivationService interface {
	Activate(ctx context.Context, activationID string) error
	Resend(ctx context.Context, email string) error
	ResendLink(email string) string
}

type PageRenderer interface {
	Page(name string, data templates.Page) (string, error)
}

const (
	titleLinkExpired  = "Activation Link Expired"
	titleResent       = "Activation Resent"
	titleInternal     = "Internal server error"
	msgInternalPage   = "Something went wrong..."
	msgUserNotFound   = "The user for link does not exist..."
	msgMissingEmail   = "The link is missing the email address."
	titleUserNotFound = "User not found."
	titleBadLink      = "Invalid link"
)

// ActivationHandler serves the HTML pages behind the links in activation emails.
type ActivationHandler struct {
	uc          ActivationService
	pages       PageRenderer
	frontendURL string
}

func NewActivationHandler(uc ActivationService, pages PageRenderer, frontendURL string) *ActivationHandler {
	return &ActivationHandler{uc: uc, pages: pages, frontendURL: frontendURL}
}

func (h *ActivationHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	act := e.Group("/activation")

	act.GET("/resend", h.resend, use(g.Strict)...)
	act.GET("/:activation_id", h.activate)
}

func (h *ActivationHandler) activate(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return h.render(c, http.StatusBadRequest, templates.ErrorPage, templates.Page{Title: titleBadLink, Message: msgMissingEmail})
	}

	err := h.uc.Activate(c.Request().Context(), c.Param("activation_id"))
	switch {
	case err == nil:
		return h.render(c, http.StatusOK, templates.ActivationPage, templates.Page{})
	case usecase.IsActivationExpired(err):
		return h.render(c, http.StatusNotFound, templates.ActivationExpired, templates.Page{
			Title: titleLinkExpired,
			Link:  h.uc.ResendLink(email),
		})
	case usecase.KindOf(err) == usecase.KindNotFound:
		return h.render(c, http.StatusNotFound, templates.ErrorPage, templates.Page{Title: titleUserNotFound, Message: msgUserNotFound})
	default:
		return h.render(c, http.StatusInternalServerError, templates.ErrorPage, templates.Page{Title: titleInternal, Message: msgInternalPage})
	}
}

func (h *ActivationHandler) resend(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return h.render(c, http.StatusBadRequest, templates.ErrorPage, templates.Page{Title: titleBadLink, Message: msgMissingEmail})
	}

	err := h.uc.Resend(c.Request().Context(), email)
	if err == nil {
		return h.render(c, http.StatusOK, templates.NewActivationSent, templates.Page{Title: titleResent})
	}
	ue, ok := usecase.AsError(err)
	switch {
	case !ok || ue.Kind == usecase.KindInternal:
		return h.render(c, http.StatusInternalServerError, templates.ErrorPage, templates.Page{Title: titleInternal, Message: msgInternalPage})
	case ue.Kind == usecase.KindNotFound:
		return h.render(c, http.StatusNotFound, templates.ErrorPage, templates.Page{Title: titleUserNotFound, Message: msgUserNotFound})
	default:
		return h.render(c, http.StatusBadRequest, templates.ErrorPage, templates.Page{Title: titleBadLink, Message: ue.Message})
	}
}

func (h *ActivationHandler) render(c echo.Context, status int, name string, data templates.Page) error {
	data.FrontendURL = h.frontendURL
	body, err := h.pages.Page(name, data)
	if err != nil {
		return c.String(http.StatusInternalServerError, usecase.MsgInternal)
	}
	return c.HTML(status, body)
}
