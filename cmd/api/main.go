package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/followupsync/pkg/validator"

	"github.com/johnquangdev/followupsync/internal/adapter/handler"
	"github.com/johnquangdev/followupsync/internal/bootstrap"
	"github.com/johnquangdev/followupsync/internal/infrastructure/metrics"
	"github.com/johnquangdev/followupsync/pkg/config"
)

// @title           FollowUpSync API
// @version         1.0
// @description     Extracts decisions, action items and risks from meeting transcripts
// @BasePath        /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human} | ${id}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Body cap sits above the transcript limit; the service enforces the exact size
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", cfg.Extract.MaxTranscriptBytes/1024+64)))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Initialize dependencies
	logger.Info("🔧 Initializing dependencies...")

	m := metrics.New()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := bootstrap.New(initCtx, cfg, logger, m)
	cancelInit()
	if err != nil {
		logger.Fatal("Failed to initialize extraction service", zap.Error(err))
	}
	defer app.Close()

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")

	var bucket handler.BucketInspector
	if app.Storage != nil {
		bucket = app.Storage
	}
	router := handler.NewRouter(cfg,
		handler.NewExtractionHandler(app.Service, logger),
		handler.NewStatusHandler(cfg, app.GeneratorName(), app.ResultStore, bucket, logger),
		m.Handler(),
		logger,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("mode", cfg.Extract.Mode),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
