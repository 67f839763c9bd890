package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/followupsync/internal/usecase/errors"
	"github.com/johnquangdev/followupsync/pkg/ai"
	"github.com/johnquangdev/followupsync/pkg/runcontext"
)

// DefaultGenerateTimeout bounds a single generation call
const DefaultGenerateTimeout = 60 * time.Second

// LLMOptions configures an LLMExtractor
type LLMOptions struct {
	SystemPrompt string
	Timeout      time.Duration
	Logger       *zap.Logger
	Recorder     Recorder
}

// LLMExtractor asks a Generator for structured JSON and falls back to
// another Extractor when the call or the parse fails. Generation is tried once.
type LLMExtractor struct {
	generator Generator
	fallback  Extractor
	system    string
	timeout   time.Duration
	logger    *zap.Logger
	recorder  Recorder
}

func NewLLMExtractor(gen Generator, fallback Extractor, opts LLMOptions) *LLMExtractor {
	e := &LLMExtractor{
		generator: gen,
		fallback:  fallback,
		system:    opts.SystemPrompt,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
	}
	if e.system == "" {
		e.system = DefaultSystemPrompt
	}
	if e.timeout <= 0 {
		e.timeout = DefaultGenerateTimeout
	}
	if e.fallback == nil {
		e.fallback = NewHeuristicExtractor()
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	return e
}

// Extract never surfaces upstream errors; they turn into a fallback draft
func (e *LLMExtractor) Extract(ctx context.Context, transcript string) (*entities.Draft, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger := e.logger
	if logger != nil {
		logger = logger.With(runcontext.LogFields(ctx)...)
	}

	start := time.Now()
	reply, err := e.generator.Generate(callCtx, ai.Prompt{System: e.system, Transcript: transcript})
	e.recorder.ObserveGenerator(e.generator.Name(), err, time.Since(start))
	if err != nil {
		if logger != nil {
			logger.Warn("⚠️ Generation failed, using heuristic extraction",
				zap.String("provider", e.generator.Name()),
				zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
				zap.Error(err),
			)
		}
		return e.fallBack(ctx, transcript, entities.FallbackUpstreamError)
	}

	draft, err := ParseDraft(reply)
	if err != nil {
		if logger != nil {
			logger.Warn("⚠️ Generated reply is not valid JSON, using heuristic extraction",
				zap.String("provider", e.generator.Name()),
				zap.Int("reply_length", len(reply)),
				zap.Error(err),
			)
		}
		return e.fallBack(ctx, transcript, entities.FallbackParseError)
	}

	draft.Strategy = entities.StrategyLLM
	return draft, nil
}

func (e *LLMExtractor) fallBack(ctx context.Context, transcript, reason string) (*entities.Draft, error) {
	draft, err := e.fallback.Extract(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("fallback extraction failed: %w", err)
	}
	draft.FallbackReason = reason
	return draft, nil
}

// ParseDraft decodes a generated reply, tolerating Markdown code fences
func ParseDraft(reply string) (*entities.Draft, error) {
	content := extractJSON(reply)
	if content == "" {
		return nil, usecaseErrors.ErrEmptyCompletion
	}
	if content[0] != '{' {
		return nil, fmt.Errorf("reply is not a JSON object")
	}

	var draft entities.Draft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return &draft, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimPrefix(content, "json")
		content = strings.TrimPrefix(content, "JSON")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else {
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
