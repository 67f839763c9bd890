package extraction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/followupsync/internal/usecase/errors"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

type mapResults struct {
	mu    sync.Mutex
	items map[string]*entities.ExtractionResult
	err   error
}

func newMapResults() *mapResults {
	return &mapResults{items: make(map[string]*entities.ExtractionResult)}
}

func (m *mapResults) Save(_ context.Context, r *entities.ExtractionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[r.RunID] = r
	return nil
}

func (m *mapResults) FindByRunID(_ context.Context, id string) (*entities.ExtractionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, usecaseErrors.ErrRunNotFound
	}
	return r, nil
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string) (*entities.Draft, error) {
	return nil, errors.New("boom")
}

func fixedClock() time.Time {
	return time.Date(2025, time.October, 14, 9, 0, 0, 0, time.UTC)
}

func newTestService(opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = fixedClock
	}
	opts.Logger = zap.NewNop()
	return NewService(NewHeuristicExtractor(), NewAssembler(ResolverWins, nil), opts)
}

func TestProcess_BlankTranscript(t *testing.T) {
	svc := newTestService(Options{})
	for _, blank := range []string{"", "   ", "\n\t\n"} {
		_, err := svc.Process(context.Background(), Request{Transcript: blank})
		assert.True(t, errors.Is(err, usecaseErrors.ErrEmptyTranscript))
	}
}

func TestProcess_ProseOnly(t *testing.T) {
	result, err := newTestService(Options{}).Extract(context.Background(), "Thanks all, good chat today.", "")
	require.NoError(t, err)

	assert.Len(t, result.RunID, 8)
	assert.Empty(t, result.Decisions)
	assert.Empty(t, result.ActionItems)
	assert.Empty(t, result.Risks)
	assert.NotEmpty(t, result.SummaryMD)
	assert.Equal(t, entities.StrategyHeuristic, result.Strategy)
}

func TestProcess_ResolvesAgainstClock(t *testing.T) {
	result, err := newTestService(Options{}).Process(context.Background(), Request{
		Transcript: "TODO: send the deck by Friday",
		RunID:      "kickoff-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "kickoff-1", result.RunID)
	require.Len(t, result.ActionItems, 1)
	require.NotNil(t, result.ActionItems[0].DueDate)
	assert.Equal(t, "2025-10-17", result.ActionItems[0].DueDate.String())
}

func TestProcess_ReferenceOverride(t *testing.T) {
	ref := temporal.Date{Year: 2026, Month: time.January, Day: 5} // Monday
	result, err := newTestService(Options{}).Process(context.Background(), Request{
		Transcript: "TODO: file taxes by Friday",
		Reference:  &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", result.ActionItems[0].DueDate.String())
}

func TestProcess_UsesLocationForToday(t *testing.T) {
	late := func() time.Time { return time.Date(2025, time.October, 14, 20, 0, 0, 0, time.UTC) }
	svc := newTestService(Options{Clock: late, Location: time.FixedZone("ICT", 7*3600)})

	// already Wednesday 15th in ICT
	result, err := svc.Extract(context.Background(), "TODO: demo by Wednesday", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-22", result.ActionItems[0].DueDate.String())
}

func TestProcess_Validation(t *testing.T) {
	svc := newTestService(Options{MaxTranscriptBytes: 16})

	_, err := svc.Process(context.Background(), Request{Transcript: strings.Repeat("a", 17)})
	assert.True(t, errors.Is(err, usecaseErrors.ErrTranscriptTooLarge))

	_, err = svc.Process(context.Background(), Request{Transcript: "hi", RunID: "../etc"})
	assert.True(t, errors.Is(err, usecaseErrors.ErrInvalidRunID))
}

func TestProcess_ExtractorError(t *testing.T) {
	svc := NewService(failingExtractor{}, nil, Options{Clock: fixedClock})
	_, err := svc.Extract(context.Background(), "anything", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestProcess_CachesAndGets(t *testing.T) {
	results := newMapResults()
	svc := newTestService(Options{Results: results})

	created, err := svc.Extract(context.Background(), "We agreed on Go", "run-42")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "run-42")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, usecaseErrors.ErrRunNotFound))

	_, err = svc.Get(context.Background(), "bad id!")
	assert.True(t, errors.Is(err, usecaseErrors.ErrInvalidRunID))
}

func TestProcess_CacheFailureIsNotFatal(t *testing.T) {
	results := newMapResults()
	results.err = errors.New("redis down")

	result, err := newTestService(Options{Results: results}).Extract(context.Background(), "decision: go", "")
	require.NoError(t, err)
	assert.Len(t, result.Decisions, 1)
}

func TestGet_WithoutRepository(t *testing.T) {
	_, err := newTestService(Options{}).Get(context.Background(), "abc")
	assert.True(t, errors.Is(err, usecaseErrors.ErrRunNotFound))
}

func TestProcess_LLMFallbackEndToEnd(t *testing.T) {
	gen := &stubGenerator{reply: "not json at all"}
	rec := &countingRecorder{}
	svc := NewService(
		NewExtractor(gen, "", time.Second, zap.NewNop(), rec),
		NewAssembler(ResolverWins, nil),
		Options{Clock: fixedClock, Recorder: rec},
	)

	result, err := svc.Extract(context.Background(), "We decided to use PostgreSQL\nTODO: set up CI", "")
	require.NoError(t, err)
	assert.Equal(t, entities.StrategyHeuristic, result.Strategy)
	assert.Equal(t, entities.FallbackParseError, result.FallbackReason)
	assert.Equal(t, []entities.Strategy{entities.StrategyHeuristic}, rec.strategies)
	assert.Equal(t, CountsSummary(1, 1, 0), result.SummaryMD)
}

func TestProcess_ConcurrentCalls(t *testing.T) {
	svc := newTestService(Options{Results: newMapResults()})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Extract(context.Background(), "TODO: ship by Friday", "")
			assert.NoError(t, err)
			assert.Equal(t, "2025-10-17", result.ActionItems[0].DueDate.String())
		}()
	}
	wg.Wait()
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	assert.Len(t, id, 8)
	assert.True(t, ValidRunID(id))
	assert.NotEqual(t, id, NewRunID())
}

func TestProcess_FallbackWarningCarriesRunID(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	gen := &stubGenerator{err: errors.New("503 service unavailable")}
	svc := NewService(
		NewLLMExtractor(gen, nil, LLMOptions{Logger: logger}),
		nil,
		Options{Clock: fixedClock, Logger: logger},
	)

	_, err := svc.Process(context.Background(), Request{Transcript: "TODO: call the vendor", RunID: "warn-1"})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("Generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "warn-1", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "2025-10-14", entries[0].ContextMap()["reference_date"])
}
