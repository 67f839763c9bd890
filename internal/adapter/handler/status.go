package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/followupsync/internal/adapter/dto/extraction"
	"github.com/johnquangdev/followupsync/pkg/config"
)

// BucketInspector reports object storage state
type BucketInspector interface {
	GetBucketInfo(ctx context.Context) (map[string]interface{}, error)
}

// Status reports how the service is wired
type Status struct {
	cfg         *config.Config
	generator   string
	resultStore string
	storage     BucketInspector
	logger      *zap.Logger
}

// NewStatusHandler creates a status handler. storage may be nil.
func NewStatusHandler(cfg *config.Config, generator, resultStore string, storage BucketInspector, logger *zap.Logger) *Status {
	if generator == "" {
		generator = "none"
	}
	return &Status{cfg: cfg, generator: generator, resultStore: resultStore, storage: storage, logger: logger}
}

// Get returns the service status
// @Summary      Service status
// @Description  Reports the extraction mode, generator backend, result store and object storage state
// @Tags         Status
// @Produce      json
// @Success      200  {object}  extraction.StatusResponse
// @Router       /status [get]
func (h *Status) Get(c echo.Context) error {
	resp := dto.StatusResponse{
		Status:      "ok",
		Environment: h.cfg.Server.Environment,
		Mode:        h.cfg.Extract.Mode,
		Generator:   h.generator,
		ResultStore: h.resultStore,
	}

	if h.storage != nil {
		info, err := h.storage.GetBucketInfo(c.Request().Context())
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("storage status check failed", zap.Error(err))
			}
			resp.Status = "degraded"
			info = map[string]interface{}{"error": err.Error()}
		}
		resp.Storage = info
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}
