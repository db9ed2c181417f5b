package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/middleware"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in usecase.RegisterInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *AuthServiceMock) Login(ctx context.Context, in usecase.LoginInput) (usecase.LoginOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.LoginOutput), args.Error(1)
}

func (m *AuthServiceMock) Refresh(ctx context.Context, userID int64) (usecase.RefreshOutput, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(usecase.RefreshOutput), args.Error(1)
}

func (m *AuthServiceMock) Revoke(ctx context.Context, claims *auth.Claims) (string, error) {
	args := m.Called(ctx, claims)
	return args.String(0), args.Error(1)
}

type OrderListerMock struct {
	mock.Mock
}

func (m *OrderListerMock) ListUserOrders(ctx context.Context, requesterID, userID int64) ([]usecase.OrderOutput, error) {
	args := m.Called(ctx, requesterID, userID)
	return args.Get(0).([]usecase.OrderOutput), args.Error(1)
}

// tokenTable maps raw bearer tokens to their claims.
type tokenTable map[string]*auth.Claims

func (t tokenTable) Authenticate(_ context.Context, raw string, tt auth.TokenType) (*auth.Claims, error) {
	c, ok := t[raw]
	if !ok || c.Type != tt {
		return nil, usecase.Unauthorized("Unauthorized")
	}
	return c, nil
}

func claims(t auth.TokenType, sub, jti string) *auth.Claims {
	return &auth.Claims{Type: t, RegisteredClaims: jwt.RegisteredClaims{Subject: sub, ID: jti}}
}

func newUserServer(a handler.AuthService, o handler.UserOrderService, tokens tokenTable) *echo.Echo {
	e := echo.New()
	handler.NewUserHandler(a, o).RegisterRoutes(e, handler.Guards{
		Access:  middleware.AuthJWT(tokens, auth.AccessToken),
		Refresh: middleware.AuthJWT(tokens, auth.RefreshToken),
	})
	return e
}

func TestUserHandler_Register(t *testing.T) {
	a := new(AuthServiceMock)
	a.On("Register", mock.Anything, usecase.RegisterInput{FirstName: "Ada", LastName: "L", Email: "ada@x.io", Password: "secret123"}).Return(nil)

	rec := do(t, newUserServer(a, nil, nil), http.MethodPost, "/api/user",
		`{"first_name":"Ada","last_name":"L","email":"ada@x.io","password":"secret123"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"`+usecase.MsgRegistered+`"}`, rec.Body.String())
}

func TestUserHandler_RegisterConflict(t *testing.T) {
	a := new(AuthServiceMock)
	a.On("Register", mock.Anything, mock.Anything).Return(usecase.Conflict(usecase.MsgEmailTaken))

	rec := do(t, newUserServer(a, nil, nil), http.MethodPost, "/api/user", `{"email":"ada@x.io","password":"secret123"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandler_Login(t *testing.T) {
	a := new(AuthServiceMock)
	a.On("Login", mock.Anything, usecase.LoginInput{Email: "ada@x.io", Password: "pw"}).
		Return(usecase.LoginOutput{AccessToken: "a", RefreshToken: "r", User: usecase.UserSummary{UserID: 1}}, nil)

	rec := do(t, newUserServer(a, nil, nil), http.MethodPost, "/api/user/login", `{"email":"ada@x.io","password":"pw"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "a", body["access_token"])
	assert.Equal(t, "r", body["refresh_token"])
}

func TestUserHandler_RefreshNeedsRefreshToken(t *testing.T) {
	a := new(AuthServiceMock)
	a.On("Refresh", mock.Anything, int64(3)).Return(usecase.RefreshOutput{AccessToken: "new"}, nil)
	tokens := tokenTable{
		"ref":    claims(auth.RefreshToken, "3", "j1"),
		"access": claims(auth.AccessToken, "3", "j2"),
	}
	e := newUserServer(a, nil, tokens)

	rec := do(t, e, http.MethodPost, "/api/user/refresh", "", echo.HeaderAuthorization, "Bearer ref")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", decode(t, rec)["access_token"])

	rec = do(t, e, http.MethodPost, "/api/user/refresh", "", echo.HeaderAuthorization, "Bearer access")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/user/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Missing Authorization Header"}`, rec.Body.String())
}

func TestUserHandler_RevokeBothTokens(t *testing.T) {
	access := claims(auth.AccessToken, "3", "j-access")
	refresh := claims(auth.RefreshToken, "3", "j-refresh")
	a := new(AuthServiceMock)
	a.On("Revoke", mock.Anything, access).Return("User 3 successfully logged out.", nil).Once()
	a.On("Revoke", mock.Anything, refresh).Return("User 3 successfully logged out.", nil).Once()
	e := newUserServer(a, nil, tokenTable{"a": access, "r": refresh})

	rec := do(t, e, http.MethodPost, "/api/user/revoke-access", "", echo.HeaderAuthorization, "Bearer a")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User 3 successfully logged out."}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/user/revoke-refresh", "", echo.HeaderAuthorization, "Bearer r")
	assert.Equal(t, http.StatusOK, rec.Code)

	a.AssertExpectations(t)
}

func TestUserHandler_ListOrders(t *testing.T) {
	o := new(OrderListerMock)
	o.On("ListUserOrders", mock.Anything, int64(3), int64(3)).Return([]usecase.OrderOutput{{ID: 8, Status: "NEW"}}, nil)
	o.On("ListUserOrders", mock.Anything, int64(3), int64(4)).Return([]usecase.OrderOutput(nil), usecase.Unauthorized("You can only view your own orders"))
	e := newUserServer(nil, o, tokenTable{"a": claims(auth.AccessToken, "3", "j")})

	rec := do(t, e, http.MethodGet, "/api/user/3/orders", "", echo.HeaderAuthorization, "Bearer a")
	assert.Equal(t, http.StatusOK, rec.Code)
	orders := decode(t, rec)["orders"].([]any)
	assert.Len(t, orders, 1)

	rec = do(t, e, http.MethodGet, "/api/user/4/orders", "", echo.HeaderAuthorization, "Bearer a")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
