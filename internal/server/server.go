package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/handler"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/logger"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/telemetry"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Routes is implemented by every handler.
type Routes interface {
	RegisterRoutes(e *echo.Echo, g handler.Guards)
}

type Options struct {
	Addr        string
	FrontendURL string // allowed CORS origin
	Tracing     bool
}

type Server struct {
	e    *echo.Echo
	http *http.Server
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger, guards handler.Guards, routes ...Routes) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(echomw.Recover())
	if opts.FrontendURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{opts.FrontendURL},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	e.Use(logger.Middleware(log))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	for _, r := range routes {
		r.RegisterRoutes(e, guards)
	}

	var h http.Handler = e
	if opts.Tracing {
		h = telemetry.Handler(e)
	}

	return &Server{
		e: e,
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the root handler, including tracing when enabled.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// errorHandler renders echo errors (404, 405, bind failures, panics) with
// the same body shape the handlers use.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "Internal server error."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		if status >= http.StatusInternalServerError {
			logger.FromCtx(c.Request().Context(), log).Error("unhandled error",
				zap.String("layer", "server"),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, handler.ErrorResponse{Error: msg})
	}
}
