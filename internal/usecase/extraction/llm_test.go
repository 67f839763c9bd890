package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/pkg/ai"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

type stubGenerator struct {
	reply  string
	err    error
	block  bool
	prompt ai.Prompt
	calls  int
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, p ai.Prompt) (string, error) {
	g.calls++
	g.prompt = p
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.reply, g.err
}

type countingRecorder struct {
	generatorErrs []error
	strategies    []entities.Strategy
}

func (r *countingRecorder) ObserveExtraction(s entities.Strategy, _ string, _ time.Duration) {
	r.strategies = append(r.strategies, s)
}

func (r *countingRecorder) ObserveGenerator(_ string, err error, _ time.Duration) {
	r.generatorErrs = append(r.generatorErrs, err)
}

const fencedReply = "```json\n" + `{
  "decisions": [{"text": "Use React", "owners": ["Sarah"]}],
  "action_items": [{"title": "Set up env", "owner": "John", "due_date": "YYYY-MM-DD", "priority": "High"}],
  "risks": [],
  "summary_md": "Kickoff went well"
}` + "\n```"

func TestLLMExtract_FencedJSON(t *testing.T) {
	gen := &stubGenerator{reply: fencedReply}
	rec := &countingRecorder{}
	e := NewLLMExtractor(gen, nil, LLMOptions{SystemPrompt: "custom", Recorder: rec})

	draft, err := e.Extract(context.Background(), "transcript text")
	require.NoError(t, err)

	assert.Equal(t, entities.StrategyLLM, draft.Strategy)
	assert.Empty(t, draft.FallbackReason)
	require.Len(t, draft.Decisions, 1)
	assert.Equal(t, "Use React", draft.Decisions[0].Text.String())
	require.Len(t, draft.ActionItems, 1)
	assert.Equal(t, "John", draft.ActionItems[0].Owner.String())
	assert.Equal(t, "Kickoff went well", draft.SummaryMD.String())

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "custom", gen.prompt.System)
	assert.Equal(t, "transcript text", gen.prompt.Transcript)
	assert.Equal(t, []error{nil}, rec.generatorErrs)
}

func TestLLMExtract_DefaultPrompt(t *testing.T) {
	gen := &stubGenerator{reply: `{}`}
	_, err := NewLLMExtractor(gen, nil, LLMOptions{}).Extract(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, gen.prompt.System)
}

func TestLLMExtract_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		gen    *stubGenerator
		reason string
	}{
		{name: "malformed reply", gen: &stubGenerator{reply: "Sure! Here are the items: decisions..."}, reason: entities.FallbackParseError},
		{name: "truncated JSON", gen: &stubGenerator{reply: `{"decisions": [{"text": "Use`}, reason: entities.FallbackParseError},
		{name: "JSON array", gen: &stubGenerator{reply: `[]`}, reason: entities.FallbackParseError},
		{name: "empty reply", gen: &stubGenerator{reply: "```json\n```"}, reason: entities.FallbackParseError},
		{name: "upstream error", gen: &stubGenerator{err: errors.New("connection refused")}, reason: entities.FallbackUpstreamError},
		{name: "timeout", gen: &stubGenerator{block: true}, reason: entities.FallbackUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewLLMExtractor(tt.gen, NewHeuristicExtractor(), LLMOptions{Timeout: 20 * time.Millisecond})

			draft, err := e.Extract(context.Background(), "We decided to use PostgreSQL\nTODO: set up CI")
			require.NoError(t, err)

			assert.Equal(t, entities.StrategyHeuristic, draft.Strategy)
			assert.Equal(t, tt.reason, draft.FallbackReason)
			require.Len(t, draft.Decisions, 1)
			require.Len(t, draft.ActionItems, 1)
			assert.Equal(t, "set up CI", draft.ActionItems[0].Title.String())
			assert.Equal(t, 1, tt.gen.calls, "generation must not be retried")
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":   `{"a":1}`,
		"```\n{\"a\":1}\n```":       `{"a":1}`,
		"  {\"a\":1}  ":             `{"a":1}`,
		"```JSON\n{\"a\":1}```\n":   `{"a":1}`,
		"```json\n{\"a\":1}":        `{"a":1}`,
		"{\"a\":1}\n```":             `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, extractJSON(in), in)
	}
}

func TestParseDraft_TrailingFenceOnly(t *testing.T) {
	draft, err := ParseDraft("{\"decisions\":[{\"text\":\"Use Go\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, draft.Decisions, 1)
	assert.Equal(t, "Use Go", draft.Decisions[0].Text.String())
}

func TestParseDraft_ObjectValuedFieldsAreDropped(t *testing.T) {
	reply := `{
		"decisions": [{"text": "Adopt Go", "owners": [{"name": "Ann"}, "Bob"]}],
		"action_items": [{"title": "Ship", "priority": {"level": "High"}, "owner": {"name": "Ann"}}],
		"risks": [{"text": "Scope creep", "severity": "High"}]
	}`
	draft, err := ParseDraft(reply)
	require.NoError(t, err)

	require.Len(t, draft.ActionItems, 1)
	assert.Equal(t, "Ship", draft.ActionItems[0].Title.String())
	assert.Empty(t, draft.ActionItems[0].Priority.String())
	assert.Empty(t, draft.ActionItems[0].Owner.String())
	require.Len(t, draft.Decisions, 1)
	assert.Equal(t, entities.TextList{"Bob"}, draft.Decisions[0].Owners)
	require.Len(t, draft.Risks, 1)

	result := NewAssembler(ResolverWins, nil).Assemble(draft, "obj", temporal.Date{Year: 2025, Month: 10, Day: 14})
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, entities.LevelMedium, result.ActionItems[0].Priority)
	assert.Equal(t, []string{"Bob"}, result.Decisions[0].Owners)
}

func TestNewExtractor(t *testing.T) {
	_, isHeuristic := NewExtractor(nil, "", 0, nil, nil).(*HeuristicExtractor)
	assert.True(t, isHeuristic)

	_, isLLM := NewExtractor(&stubGenerator{}, "", 0, nil, nil).(*LLMExtractor)
	assert.True(t, isLLM)
}
