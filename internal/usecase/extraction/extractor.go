// Package extraction turns meeting transcripts into decisions, action items and risks.
//
// Two strategies sit behind the Extractor interface. LLMExtractor hands the
// transcript to a text generation service and parses its JSON reply;
// HeuristicExtractor scans lines for keywords. The LLM path falls back to the
// heuristic one on any upstream or parse failure, and the Assembler turns
// either draft into a canonical entities.ExtractionResult.
package extraction

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/pkg/ai"
)

// Extractor produces a raw draft from transcript text
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*entities.Draft, error)
}

// Generator is a text generation backend
type Generator interface {
	Name() string
	Generate(ctx context.Context, p ai.Prompt) (string, error)
}

// Recorder receives extraction telemetry
type Recorder interface {
	ObserveExtraction(strategy entities.Strategy, fallbackReason string, elapsed time.Duration)
	ObserveGenerator(provider string, err error, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExtraction(entities.Strategy, string, time.Duration) {}
func (nopRecorder) ObserveGenerator(string, error, time.Duration)             {}

// NewExtractor picks the strategy: LLM with heuristic fallback when a
// generator is given, heuristic only otherwise
func NewExtractor(gen Generator, systemPrompt string, timeout time.Duration, logger *zap.Logger, rec Recorder) Extractor {
	heuristic := NewHeuristicExtractor()
	if gen == nil {
		return heuristic
	}
	return NewLLMExtractor(gen, heuristic, LLMOptions{
		SystemPrompt: systemPrompt,
		Timeout:      timeout,
		Logger:       logger,
		Recorder:     rec,
	})
}
