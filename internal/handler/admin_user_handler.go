package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserAdminService interface {
	List(ctx context.Context, in usecase.UserListInput) (usecase.UserListOutput, error)
	Get(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, in usecase.UserCreateInput) (model.User, error)
	Update(ctx context.Context, id int64, in usecase.UserUpdateInput) (model.User, error)
}

// /admin/api/users, admins only
type AdminUserHandler struct {
	uc UserAdminService
}

func NewAdminUserHandler(uc UserAdminService) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	users := e.Group("/admin/api/users", use(g.Access, g.BackOffice, g.Admin)...)

	users.GET("", h.list)
	users.POST("", h.create)
	users.GET("/:id", h.get)
	users.PATCH("/:id", h.update)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	page, perPage, ok := paging(c, 1)
	if !ok {
		return badRequest(c, "page and per_page must be non-negative integers")
	}
	out, err := h.uc.List(c.Request().Context(), usecase.UserListInput{
		Page:    page,
		PerPage: perPage,
		Email:   c.QueryParam("email"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) get(c echo.Context) error {
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

func (h *AdminUserHandler) create(c echo.Context) error {
	var req usecase.UserCreateInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminUserHandler) update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.UserUpdateInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Update(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
