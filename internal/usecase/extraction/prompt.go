package extraction

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	usecaseErrors "github.com/johnquangdev/followupsync/internal/usecase/errors"
)

// DefaultSystemPrompt is used when no prompt resource can be loaded
const DefaultSystemPrompt = `You are an expert project assistant. Extract ALL action items, decisions, and risks from this meeting transcript.

For Action Items, extract EVERY task mentioned with:
- title: Clean task description (e.g., "Set up development environment")
- owner: Person's name only (e.g., "John", "Sarah", "Mike") or "Unassigned"
- due_date: Convert phrases like "by Friday", "next Tuesday" to YYYY-MM-DD format
- priority: High/Medium/Low based on urgency
- notes: Additional context

Return ONLY valid JSON:
{"decisions": [{"text": "...", "owners": ["..."]}], "action_items": [{"title": "...", "owner": "...", "due_date": "...", "priority": "...", "notes": "..."}], "risks": [{"text": "...", "severity": "..."}], "summary_md": "..."}`

// PromptSource supplies the system instruction for generation
type PromptSource interface {
	Load(ctx context.Context) (string, error)
}

// FilePromptSource reads the prompt from the local filesystem
type FilePromptSource struct {
	Path string
}

func (s FilePromptSource) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read prompt file %s: %w", s.Path, err)
	}
	return string(b), nil
}

// ObjectReader fetches a text object from storage
type ObjectReader interface {
	GetText(ctx context.Context, objectName string) (string, error)
}

// ObjectPromptSource reads the prompt from object storage, retrying
// transient failures with exponential backoff
type ObjectPromptSource struct {
	Reader     ObjectReader
	Object     string
	MaxElapsed time.Duration
}

func (s ObjectPromptSource) Load(ctx context.Context) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = s.MaxElapsed
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 30 * time.Second
	}

	var text string
	fetch := func() error {
		var err error
		text, err = s.Reader.GetText(ctx, s.Object)
		if errors.Is(err, fs.ErrNotExist) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(fetch, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("fetch prompt object %s: %w", s.Object, err)
	}
	return text, nil
}

// LoadSystemPrompt returns the first non-blank prompt from sources, or the
// built-in default when every source fails
func LoadSystemPrompt(ctx context.Context, logger *zap.Logger, sources ...PromptSource) string {
	for _, src := range sources {
		text, err := src.Load(ctx)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if logger != nil {
			if err == nil {
				err = usecaseErrors.ErrPromptUnavailable
			}
			logger.Warn("Prompt source unavailable, trying next", zap.Error(err))
		}
	}
	if logger != nil {
		logger.Info("📝 Using built-in system prompt")
	}
	return DefaultSystemPrompt
}
