package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey = "user_id" // int64
	CtxClaimsKey = "claims"  // *auth.Claims
	CtxUserKey   = "user"    // model.User, set by BackOfficeGuard
)

// Authenticator verifies a raw bearer token of the given type.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string, t auth.TokenType) (*auth.Claims, error)
}

// AuthJWT requires a valid, unrevoked bearer token of type t.
func AuthJWT(a Authenticator, t auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Missing Authorization Header"))
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Bad Authorization header. Expected 'Bearer <JWT>'"))
			}

			claims, err := a.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]), t)
			if err != nil {
				msg := "Unauthorized"
				if ue, ok := usecase.AsError(err); ok {
					msg = ue.Message
				}
				return c.JSON(http.StatusUnauthorized, errorJSON(msg))
			}

			userID, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			c.Set(CtxClaimsKey, claims)
			c.Set(CtxUserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the id stored by AuthJWT.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(CtxClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
