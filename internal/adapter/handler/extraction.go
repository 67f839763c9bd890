package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/errors"
	dto "github.com/johnquangdev/followupsync/internal/adapter/dto/extraction"
	"github.com/johnquangdev/followupsync/internal/adapter/presenter"
	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/internal/usecase/extraction"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

// Extraction handles transcript extraction endpoints
type Extraction struct {
	svc    extraction.Service
	logger *zap.Logger
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(svc extraction.Service, logger *zap.Logger) *Extraction {
	return &Extraction{svc: svc, logger: logger}
}

// Create extracts decisions, action items and risks from a transcript
// @Summary      Extract meeting artifacts
// @Description  Runs the extraction pipeline on a transcript and caches the result under its run id
// @Tags         Extractions
// @Accept       json
// @Produce      json
// @Param        request  body      extraction.CreateExtractionRequest  true  "Transcript to process"
// @Success      201      {object}  extraction.ExtractionResponse
// @Failure      400      {object}  map[string]interface{}  "Empty transcript or invalid run id"
// @Failure      413      {object}  map[string]interface{}  "Transcript too large"
// @Failure      500      {object}  map[string]interface{}  "Extraction failed"
// @Router       /extractions [post]
func (h *Extraction) Create(c echo.Context) error {
	var req dto.CreateExtractionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return HandleError(h.logger, c, errors.ErrEmptyTranscript())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, toAppError(err, req.RunID))
	}

	in := extraction.Request{Transcript: req.Transcript, RunID: req.RunID}
	if req.ReferenceDate != "" {
		ref, err := temporal.Parse(req.ReferenceDate)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid reference_date").WithDetail("reference_date", req.ReferenceDate))
		}
		in.Reference = &ref
	}

	result, err := h.svc.Process(c.Request().Context(), in)
	if err != nil {
		appErr := toAppError(err, req.RunID)
		if appErr.Code == errors.ErrorCode_INTERNAL {
			appErr = errors.ErrExtractionFailed(err)
		}
		return HandleError(h.logger, c, appErr)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToExtractionResponse(result))
}

// Get returns a cached extraction result
// @Summary      Get extraction result
// @Tags         Extractions
// @Produce      json
// @Param        run_id  path      string  true  "Run ID"
// @Success      200     {object}  extraction.ExtractionResponse
// @Failure      400     {object}  map[string]interface{}  "Invalid run id"
// @Failure      404     {object}  map[string]interface{}  "Run not found"
// @Router       /extractions/{run_id} [get]
func (h *Extraction) Get(c echo.Context) error {
	result, err := h.load(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToExtractionResponse(result))
}

// Summary returns the Markdown summary of a run
// @Summary      Download Summary.md
// @Tags         Extractions
// @Produce      text/markdown
// @Param        run_id  path      string  true  "Run ID"
// @Success      200     {string}  string
// @Failure      404     {object}  map[string]interface{}  "Run not found"
// @Router       /extractions/{run_id}/summary.md [get]
func (h *Extraction) Summary(c echo.Context) error {
	result, err := h.load(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+extraction.SummaryFileName+`"`)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(extraction.RenderMarkdown(result)))
}

// ActionItems returns the full result as a JSON attachment
// @Summary      Download ActionItems.json
// @Tags         Extractions
// @Produce      json
// @Param        run_id  path      string  true  "Run ID"
// @Success      200     {object}  entities.ExtractionResult
// @Failure      404     {object}  map[string]interface{}  "Run not found"
// @Router       /extractions/{run_id}/action-items.json [get]
func (h *Extraction) ActionItems(c echo.Context) error {
	result, err := h.load(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	body, err := extraction.RenderActionItemsJSON(result)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+extraction.ActionItemsFileName+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
}

// Digest returns a chat-ready rendition of a run
// @Summary      Get chat digest
// @Tags         Extractions
// @Produce      json
// @Param        run_id  path      string  true  "Run ID"
// @Success      200     {object}  extraction.Digest
// @Failure      404     {object}  map[string]interface{}  "Run not found"
// @Router       /extractions/{run_id}/digest [get]
func (h *Extraction) Digest(c echo.Context) error {
	result, err := h.load(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, extraction.ChatDigest(result))
}

func (h *Extraction) load(c echo.Context) (*entities.ExtractionResult, error) {
	var req dto.GetExtractionRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.ErrInvalidPayload()
	}
	if !extraction.ValidRunID(req.RunID) {
		return nil, errors.ErrInvalidRunID(req.RunID)
	}

	result, err := h.svc.Get(c.Request().Context(), req.RunID)
	if err != nil {
		return nil, toAppError(err, req.RunID)
	}
	return result, nil
}
