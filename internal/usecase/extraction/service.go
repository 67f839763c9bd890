package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/followupsync/internal/usecase/errors"
	"github.com/johnquangdev/followupsync/pkg/runcontext"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

var runIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NewRunID returns an 8 character id taken from a random UUID
func NewRunID() string {
	return uuid.NewString()[:8]
}

// ValidRunID reports whether id is safe to use in a cache key and a URL path
func ValidRunID(id string) bool {
	return runIDPattern.MatchString(id)
}

// Request is one extraction call
type Request struct {
	Transcript string
	// RunID is generated when empty
	RunID string
	// Reference overrides today's date for relative phrases
	Reference *temporal.Date
}

// Service defines extraction orchestration methods
type Service interface {
	Process(ctx context.Context, req Request) (*entities.ExtractionResult, error)
	Extract(ctx context.Context, transcript, runID string) (*entities.ExtractionResult, error)
	Get(ctx context.Context, runID string) (*entities.ExtractionResult, error)
}

// Options wires optional collaborators into the service
type Options struct {
	Results            repositories.ResultRepository
	Recorder           Recorder
	Logger             *zap.Logger
	Clock              func() time.Time
	Location           *time.Location
	MaxTranscriptBytes int
}

type service struct {
	extractor Extractor
	assembler *Assembler
	results   repositories.ResultRepository
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
	maxBytes  int
}

// NewService constructs a new extraction service
func NewService(extractor Extractor, assembler *Assembler, opts Options) Service {
	s := &service{
		extractor: extractor,
		assembler: assembler,
		results:   opts.Results,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		now:       opts.Clock,
		location:  opts.Location,
		maxBytes:  opts.MaxTranscriptBytes,
	}
	if s.extractor == nil {
		s.extractor = NewHeuristicExtractor()
	}
	if s.assembler == nil {
		s.assembler = NewAssembler(ResolverWins, opts.Logger)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.location == nil {
		s.location = time.UTC
	}
	return s
}

// Extract runs the pipeline with today's date as reference
func (s *service) Extract(ctx context.Context, transcript, runID string) (*entities.ExtractionResult, error) {
	return s.Process(ctx, Request{Transcript: transcript, RunID: runID})
}

// Process validates the request, extracts a draft and assembles the result.
// The reference date is captured once so every item in a run agrees on "today".
func (s *service) Process(ctx context.Context, req Request) (*entities.ExtractionResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, usecaseErrors.ErrEmptyTranscript
	}
	if s.maxBytes > 0 && len(req.Transcript) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", usecaseErrors.ErrTranscriptTooLarge, len(req.Transcript), s.maxBytes)
	}

	runID := req.RunID
	if runID == "" {
		runID = NewRunID()
	} else if !ValidRunID(runID) {
		return nil, usecaseErrors.ErrInvalidRunID
	}

	ref := temporal.Today(s.now(), s.location)
	if req.Reference != nil {
		ref = *req.Reference
	}

	if s.logger != nil {
		s.logger.Info("🧠 Extracting meeting artifacts",
			zap.String("run_id", runID),
			zap.Int("transcript_bytes", len(req.Transcript)),
			zap.String("reference_date", ref.String()),
		)
	}

	ctx = runcontext.RunBegin(ctx, runID, ref)
	start := time.Now()
	draft, err := s.extractor.Extract(ctx, req.Transcript)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	result := s.assembler.Assemble(draft, runID, ref)
	s.recorder.ObserveExtraction(result.Strategy, result.FallbackReason, time.Since(start))

	if s.logger != nil {
		d, a, r := result.Counts()
		s.logger.Info("✅ Extraction completed",
			zap.String("run_id", runID),
			zap.String("strategy", string(result.Strategy)),
			zap.String("fallback_reason", result.FallbackReason),
			zap.Int("decisions", d),
			zap.Int("action_items", a),
			zap.Int("risks", r),
		)
	}

	if s.results != nil {
		if err := s.results.Save(ctx, result); err != nil && s.logger != nil {
			s.logger.Warn("Failed to cache extraction result",
				zap.String("run_id", runID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// Get returns a previously processed result
func (s *service) Get(ctx context.Context, runID string) (*entities.ExtractionResult, error) {
	if !ValidRunID(runID) {
		return nil, usecaseErrors.ErrInvalidRunID
	}
	if s.results == nil {
		return nil, usecaseErrors.ErrRunNotFound
	}
	return s.results.FindByRunID(ctx, runID)
}
