package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CartServiceMock struct {
	mock.Mock
}

func (m *CartServiceMock) Create(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartServiceMock) Get(ctx context.Context, cartID int64) (usecase.CartOutput, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func (m *CartServiceMock) UpsertLine(ctx context.Context, cartID, productID int64) (usecase.CartLineOutput, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(usecase.CartLineOutput), args.Error(1)
}

func (m *CartServiceMock) SetLineQuantity(ctx context.Context, cartID, lineID, qty int64) (usecase.CartLineOutput, error) {
	args := m.Called(ctx, cartID, lineID, qty)
	return args.Get(0).(usecase.CartLineOutput), args.Error(1)
}

func (m *CartServiceMock) RemoveLine(ctx context.Context, cartID, lineID int64) (int64, error) {
	args := m.Called(ctx, cartID, lineID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartServiceMock) Merge(ctx context.Context, in usecase.MergeCartsInput) (usecase.CartOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.CartOutput), args.Error(1)
}

func newCartServer(uc handler.CartService) *echo.Echo {
	e := echo.New()
	handler.NewCartHandler(uc).RegisterRoutes(e, handler.Guards{})
	return e
}

func TestCartHandler_Create(t *testing.T) {
	uc := new(CartServiceMock)
	uc.On("Create", mock.Anything, int64(4)).Return(int64(11), nil)

	rec := do(t, newCartServer(uc), http.MethodPost, "/api/cart", `{"user_id":4}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cart_id":11}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestCartHandler_GetNotFound(t *testing.T) {
	uc := new(CartServiceMock)
	uc.On("Get", mock.Anything, int64(7)).Return(usecase.CartOutput{}, usecase.NotFound("Cart 7"))

	rec := do(t, newCartServer(uc), http.MethodGet, "/api/cart/7", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Cart 7 not found."}`, rec.Body.String())
}

func TestCartHandler_GetRejectsBadID(t *testing.T) {
	uc := new(CartServiceMock)

	rec := do(t, newCartServer(uc), http.MethodGet, "/api/cart/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCartHandler_LineOperations(t *testing.T) {
	uc := new(CartServiceMock)
	line := usecase.CartLineOutput{ID: 3, Quantity: 2}
	uc.On("UpsertLine", mock.Anything, int64(1), int64(9)).Return(line, nil)
	uc.On("SetLineQuantity", mock.Anything, int64(1), int64(3), int64(5)).Return(usecase.CartLineOutput{ID: 3, Quantity: 5}, nil)
	uc.On("RemoveLine", mock.Anything, int64(1), int64(3)).Return(int64(3), nil)
	e := newCartServer(uc)

	rec := do(t, e, http.MethodPatch, "/api/cart/1", `{"product_id":9}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["cartline"].(map[string]any)["quantity"])

	rec = do(t, e, http.MethodPut, "/api/cart/1", `{"cartline_id":3,"quantity":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, decode(t, rec)["cartline"].(map[string]any)["quantity"])

	rec = do(t, e, http.MethodDelete, "/api/cart/1", `{"cartline_id":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cartline_id":3}`, rec.Body.String())

	uc.AssertExpectations(t)
}

func TestCartHandler_SetQuantityPassesZeroThrough(t *testing.T) {
	uc := new(CartServiceMock)
	uc.On("SetLineQuantity", mock.Anything, int64(1), int64(3), int64(0)).
		Return(usecase.CartLineOutput{}, usecase.InvalidArgument(usecase.MsgBadQuantity))

	rec := do(t, newCartServer(uc), http.MethodPut, "/api/cart/1", `{"cartline_id":3,"quantity":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"0 or negative quantity is not allowed"}`, rec.Body.String())
}

func TestCartHandler_SetQuantityRequiresFields(t *testing.T) {
	uc := new(CartServiceMock)

	rec := do(t, newCartServer(uc), http.MethodPut, "/api/cart/1", `{"cartline_id":3}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "SetLineQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartHandler_Merge(t *testing.T) {
	uc := new(CartServiceMock)
	to := int64(2)
	uc.On("Merge", mock.Anything, usecase.MergeCartsInput{FromCartID: 1, ToCartID: &to, UserID: 5}).
		Return(usecase.CartOutput{ID: 2, Status: "OPEN"}, nil)

	rec := do(t, newCartServer(uc), http.MethodPost, "/api/cart/merge", `{"from_cart_id":1,"to_cart_id":2,"user_id":5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	cart := decode(t, rec)["cart"].(map[string]any)
	assert.EqualValues(t, 2, cart["id"])
	uc.AssertExpectations(t)
}
