package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/optional"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/middleware"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userTable map[int64]model.User

func (u userTable) FindActiveByID(_ context.Context, id int64) (model.User, error) {
	user, ok := u[id]
	if !ok || !user.Active {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

var (
	adminUsers = userTable{
		1: {ID: 1, Active: true, Staff: true, Admin: true},
		2: {ID: 2, Active: true, Staff: true},
		3: {ID: 3, Active: true},
	}
	adminTokens = tokenTable{
		"admin":    claims(auth.AccessToken, "1", "j1"),
		"staff":    claims(auth.AccessToken, "2", "j2"),
		"customer": claims(auth.AccessToken, "3", "j3"),
	}
)

func adminGuards() handler.Guards {
	return handler.Guards{
		Access:     middleware.AuthJWT(adminTokens, auth.AccessToken),
		BackOffice: middleware.BackOfficeGuard(adminUsers),
		Admin:      middleware.AdminGuard(),
	}
}

type OrderAdminMock struct {
	mock.Mock
}

func (m *OrderAdminMock) List(ctx context.Context, in usecase.OrderListInput) (usecase.OrderListOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.OrderListOutput), args.Error(1)
}

func (m *OrderAdminMock) Get(ctx context.Context, id int64) (usecase.OrderOutput, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(usecase.OrderOutput), args.Error(1)
}

func (m *OrderAdminMock) SetStatus(ctx context.Context, id int64, status string) (usecase.OrderOutput, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(usecase.OrderOutput), args.Error(1)
}

func bearer(tok string) []string {
	return []string{echo.HeaderAuthorization, "Bearer " + tok}
}

func TestAdminOrderHandler_Guards(t *testing.T) {
	uc := new(OrderAdminMock)
	uc.On("List", mock.Anything, mock.Anything).Return(usecase.OrderListOutput{Page: 1, PerPage: 20}, nil)
	e := echo.New()
	handler.NewAdminOrderHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodGet, "/admin/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodGet, "/admin/api/orders", "", bearer("customer")...)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, e, http.MethodGet, "/admin/api/orders", "", bearer("staff")...)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOrderHandler_ListFilters(t *testing.T) {
	uc := new(OrderAdminMock)
	userID := int64(3)
	uc.On("List", mock.Anything, usecase.OrderListInput{Page: 2, PerPage: 10, Status: "new", UserID: &userID}).
		Return(usecase.OrderListOutput{Total: 1}, nil)
	e := echo.New()
	handler.NewAdminOrderHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodGet, "/admin/api/orders?page=2&per_page=10&status=new&user_id=3", "", bearer("staff")...)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestAdminOrderHandler_SetStatus(t *testing.T) {
	uc := new(OrderAdminMock)
	uc.On("SetStatus", mock.Anything, int64(5), "COMPLETE").Return(usecase.OrderOutput{ID: 5, Status: "COMPLETE"}, nil)
	uc.On("SetStatus", mock.Anything, int64(5), "LOST").Return(usecase.OrderOutput{}, usecase.InvalidArgument("status must be NEW or COMPLETE"))
	e := echo.New()
	handler.NewAdminOrderHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodPut, "/admin/api/orders/5/status", `{"status":"COMPLETE"}`, bearer("staff")...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "COMPLETE", decode(t, rec)["status"])

	rec = do(t, e, http.MethodPut, "/admin/api/orders/5/status", `{"status":"LOST"}`, bearer("staff")...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type UserAdminMock struct {
	mock.Mock
}

func (m *UserAdminMock) List(ctx context.Context, in usecase.UserListInput) (usecase.UserListOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.UserListOutput), args.Error(1)
}

func (m *UserAdminMock) Get(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserAdminMock) Create(ctx context.Context, in usecase.UserCreateInput) (model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserAdminMock) Update(ctx context.Context, id int64, in usecase.UserUpdateInput) (model.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.User), args.Error(1)
}

func TestAdminUserHandler_AdminOnly(t *testing.T) {
	uc := new(UserAdminMock)
	uc.On("Get", mock.Anything, int64(3)).Return(model.User{ID: 3, Email: "c@x.io", PasswordHash: "hash"}, nil)
	e := echo.New()
	handler.NewAdminUserHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodGet, "/admin/api/users/3", "", bearer("staff")...)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Admin only"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/admin/api/users/3", "", bearer("admin")...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestAdminUserHandler_UpdateIsPartial(t *testing.T) {
	uc := new(UserAdminMock)
	uc.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(in usecase.UserUpdateInput) bool {
		staff, ok := in.Staff.Get()
		return ok && staff && !in.Email.Present() && !in.Password.Present()
	})).Return(model.User{ID: 3, Staff: true}, nil)
	e := echo.New()
	handler.NewAdminUserHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodPatch, "/admin/api/users/3", `{"staff":true}`, bearer("admin")...)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

type catalogAdminStub struct {
	handler.CatalogAdminService
	created usecase.ProductCreateInput
	updated usecase.ProductUpdateInput
}

func (s *catalogAdminStub) CreateProduct(_ context.Context, in usecase.ProductCreateInput) (model.Product, error) {
	s.created = in
	return model.Product{ID: 10, Name: in.Name, Price: in.Price}, nil
}

func (s *catalogAdminStub) UpdateProduct(_ context.Context, id int64, in usecase.ProductUpdateInput) (model.Product, error) {
	s.updated = in
	if id != 10 {
		return model.Product{}, usecase.NotFoundf("Product %d", id)
	}
	return model.Product{ID: id}, nil
}

func (s *catalogAdminStub) DeleteTag(_ context.Context, id int64) error {
	return nil
}

func TestAdminCatalogHandler_Products(t *testing.T) {
	uc := &catalogAdminStub{}
	e := echo.New()
	handler.NewAdminCatalogHandler(uc).RegisterRoutes(e, adminGuards())

	rec := do(t, e, http.MethodPost, "/admin/api/products", `{"name":"G305","price":"49.99","tag_ids":[1,2]}`, bearer("staff")...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "G305", uc.created.Name)
	assert.True(t, decimal.RequireFromString("49.99").Equal(uc.created.Price))
	assert.Equal(t, []int64{1, 2}, uc.created.TagIDs)

	rec = do(t, e, http.MethodPatch, "/admin/api/products/10", `{"brand_id":0}`, bearer("staff")...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, optional.Of(int64(0)), uc.updated.BrandID)
	assert.False(t, uc.updated.Name.Present())

	rec = do(t, e, http.MethodPatch, "/admin/api/products/99", `{}`, bearer("staff")...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product 99 not found."}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/admin/api/tags/4", "", bearer("staff")...)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodDelete, "/admin/api/tags/4", "", bearer("customer")...)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
