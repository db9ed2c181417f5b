package handler

import (
	"net/http"
	"strconv"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[usecase.Kind]int{
	usecase.KindNotFound:        http.StatusNotFound,
	usecase.KindInvalidArgument: http.StatusBadRequest,
	usecase.KindConflict:        http.StatusConflict,
	usecase.KindUnauthorized:    http.StatusUnauthorized,
	usecase.KindForbidden:       http.StatusForbidden,
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok {
		if status, ok := kindStatus[ue.Kind]; ok {
			return c.JSON(status, ErrorResponse{Error: ue.Message})
		}
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: usecase.MsgInternal})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// queryInt returns def when the parameter is absent.
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil && n >= 0
}
