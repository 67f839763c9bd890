package ai

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/johnquangdev/followupsync/pkg/config"
)

// UserPreamble prefixes the transcript in the user turn
const UserPreamble = "Extract from this transcript:\n\n"

// DefaultMaxTokens caps completion length when config leaves it unset
const DefaultMaxTokens = 4000

// Prompt is a single extraction request
type Prompt struct {
	System     string
	Transcript string
}

// UserMessage returns the user turn sent after the system instruction
func (p Prompt) UserMessage() string {
	return UserPreamble + p.Transcript
}

// Combined folds system instruction and user turn into one text block,
// for models that take no separate system field
func (p Prompt) Combined() string {
	return p.System + "\n\n" + p.UserMessage()
}

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, body)
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Client is a text generation backend
type Client interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// NewClient builds the backend for the configured extraction mode.
// Local mode has no backend and returns nil.
func NewClient(cfg *config.Config) (Client, error) {
	switch cfg.Extract.Mode {
	case config.ModeBedrock:
		client, err := NewBedrockClient(&cfg.Bedrock)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ModeGroq:
		return NewGroqClient(&cfg.Groq), nil
	case config.ModeLocal, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported extraction mode %q", cfg.Extract.Mode)
}
