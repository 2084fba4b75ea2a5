package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finassist/config"
	"finassist/internal/apperrors"
	"finassist/internal/dto"
	"finassist/internal/service"
	"finassist/pkg/middleware"
	"finassist/pkg/ratelimit"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type HttpAPIHandler struct {
	ctx         context.Context
	cfg         *config.Config
	echo        *echo.Echo
	validator   *goValidator.Validate
	service     *service.Service
	chatLimiter *ratelimit.LimiterStore
}

func NewHttpAPIHandler(ctx context.Context, cfg *config.Config, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		ctx:       ctx,
		cfg:       cfg,
		echo:      echo,
		validator: validator,
		service:   service,
		// Message sends invoke the generative model, so they get a much
		// tighter per-user budget than the global IP limiter.
		chatLimiter: ratelimit.NewLimiterStore(rate.Every(2*time.Second), 3),
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.Use(middleware.NewRateLimiterMiddleware())

	base := h.echo.Group("/api")
	h.SetupAuth(base)

	protected := base.Group("", middleware.JWTAuth(h.cfg.Auth.JWTSecret))
	h.SetupPortfolio(protected)
	h.SetupChat(protected)
	h.SetupNews(protected)
}

// respondError maps typed service errors to their status; anything untyped
// becomes a generic 500.
func (h *HttpAPIHandler) respondError(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.StatusCode, dto.NewBaseResponse(appErr.StatusCode, appErr.Message, nil))
	}
	return c.JSON(http.StatusInternalServerError,
		dto.NewBaseResponse(http.StatusInternalServerError, "An internal error occurred", nil))
}
