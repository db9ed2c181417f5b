package middleware

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// UserFinder loads the current account.
type UserFinder interface {
	FindActiveByID(ctx context.Context, id int64) (model.User, error)
}

// BackOfficeGuard lets active staff and admins through. It runs after AuthJWT
// and stores the loaded user in the context.
func BackOfficeGuard(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			user, err := users.FindActiveByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}
			if !user.CanAccessBackOffice() {
				return c.JSON(http.StatusForbidden, errorJSON("Staff only"))
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}

// AdminGuard must run after BackOfficeGuard.
func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(CtxUserKey).(model.User)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}
			if !user.Admin {
				return c.JSON(http.StatusForbidden, errorJSON("Admin only"))
			}
			return next(c)
		}
	}
}
