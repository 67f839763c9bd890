package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/followupsync/errors"
	"github.com/johnquangdev/followupsync/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	extractionHandler *Extraction
	statusHandler     *Status
	metricsHandler    http.Handler
	logger            *zap.Logger
}

// NewRouter creates a new router with all handlers. metrics may be nil.
func NewRouter(cfg *config.Config, extractionHandler *Extraction, statusHandler *Status, metrics http.Handler, logger *zap.Logger) *Router {
	return &Router{
		cfg:               cfg,
		extractionHandler: extractionHandler,
		statusHandler:     statusHandler,
		metricsHandler:    metrics,
		logger:            logger,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = rt.errorHandler

	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	if rt.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metricsHandler))
	}

	// API v1 group
	v1 := e.Group("/v1")
	if rt.cfg.Server.RateLimit > 0 {
		v1.Use(rt.rateLimiter())
	}

	if rt.statusHandler != nil {
		v1.GET("/status", rt.statusHandler.Get)
	}
	rt.setupExtractionRoutes(v1)
}

// setupExtractionRoutes configures extraction routes
func (rt *Router) setupExtractionRoutes(g *echo.Group) {
	extractions := g.Group("/extractions")

	if rt.extractionHandler == nil {
		extractions.Any("*", rt.notImplemented)
		return
	}

	extractions.POST("", rt.extractionHandler.Create)
	extractions.GET("/:run_id", rt.extractionHandler.Get)
	extractions.GET("/:run_id/summary.md", rt.extractionHandler.Summary)
	extractions.GET("/:run_id/action-items.json", rt.extractionHandler.ActionItems)
	extractions.GET("/:run_id/digest", rt.extractionHandler.Digest)
}

// rateLimiter limits requests per client IP
func (rt *Router) rateLimiter() echo.MiddlewareFunc {
	limit := rate.Limit(rt.cfg.Server.RateLimit)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(limit),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return HandleError(rt.logger, c, errors.ErrRateLimited())
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return HandleError(rt.logger, c, errors.ErrInvalidArgument("Unable to identify client"))
		},
	})
}

// errorHandler renders framework errors such as unknown routes in the API error shape
func (rt *Router) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr errors.AppError
	var httpErr *echo.HTTPError
	switch {
	case stdErrors.As(err, &appErr):
	case stdErrors.As(err, &httpErr):
		switch httpErr.Code {
		case http.StatusNotFound:
			appErr = errors.ErrNotFound("Route")
		case http.StatusMethodNotAllowed:
			appErr = errors.ErrInvalidArgument("Method not allowed")
			appErr.HTTPCode = http.StatusMethodNotAllowed
		case http.StatusRequestEntityTooLarge:
			appErr = errors.ErrTranscriptTooLarge(err)
		case http.StatusTooManyRequests:
			appErr = errors.ErrRateLimited()
		default:
			appErr = errors.ErrInvalidArgument(fmt.Sprint(httpErr.Message))
			appErr.HTTPCode = httpErr.Code
		}
	default:
		appErr = errors.ErrInternal(err)
	}

	if herr := HandleError(rt.logger, c, appErr); herr != nil && rt.logger != nil {
		rt.logger.Error("failed to write error response", zap.Error(herr))
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
