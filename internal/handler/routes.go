package handler

import "github.com/labstack/echo/v4"

// Guards are the middlewares handlers attach to their routes. Nil entries are skipped.
type Guards struct {
	Access     echo.MiddlewareFunc
	Refresh    echo.MiddlewareFunc
	BackOffice echo.MiddlewareFunc
	Admin      echo.MiddlewareFunc
	Strict     echo.MiddlewareFunc
	General    echo.MiddlewareFunc
}

func use(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
