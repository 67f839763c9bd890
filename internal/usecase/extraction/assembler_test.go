package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/pkg/temporal"
	pkgvalidator "github.com/johnquangdev/followupsync/pkg/validator"
)

// a Tuesday
var refDate = temporal.Date{Year: 2025, Month: 10, Day: 14}

func dueString(d *temporal.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "YYYY-MM-DD", want: ""},
		{raw: "yyyy-mm-dd", want: ""},
		{raw: "next week", want: ""},
		{raw: "2025-13-40", want: ""},
		{raw: "2025-11-03", want: "2025-11-03"},
		{raw: "2023-06-01", want: "2025-06-01"},
		{raw: "2024-12-31", want: "2025-12-31"},
		{raw: "2022-06-01", want: "2022-06-01"},
		{raw: "2027-01-15", want: "2027-01-15"},
		{raw: "2024-02-29", want: ""},
		{raw: "2025-11-03T09:00:00Z", want: "2025-11-03"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, dueString(NormalizeDueDate(tt.raw, refDate)))
		})
	}
}

func TestAssemble_ActionItemDates(t *testing.T) {
	tests := []struct {
		name       string
		item       entities.RawActionItem
		precedence DatePrecedence
		want       string
	}{
		{
			name: "placeholder becomes absent",
			item: entities.RawActionItem{Title: "Write docs", DueDate: "YYYY-MM-DD"},
			want: "",
		},
		{
			name: "stale year rewritten",
			item: entities.RawActionItem{Title: "Renew license", DueDate: "2023-06-01"},
			want: "2025-06-01",
		},
		{
			name: "future year kept",
			item: entities.RawActionItem{Title: "Plan offsite", DueDate: "2027-01-15"},
			want: "2027-01-15",
		},
		{
			name: "resolver overrides upstream",
			item: entities.RawActionItem{Title: "Send deck by Friday", DueDate: "2025-12-01"},
			want: "2025-10-17",
		},
		{
			name:       "upstream wins when configured",
			item:       entities.RawActionItem{Title: "Send deck by Friday", DueDate: "2025-12-01"},
			precedence: UpstreamWins,
			want:       "2025-12-01",
		},
		{
			name:       "upstream wins still fills a missing date",
			item:       entities.RawActionItem{Title: "Send deck by Friday"},
			precedence: UpstreamWins,
			want:       "2025-10-17",
		},
		{
			name: "source quote is read before notes",
			item: entities.RawActionItem{Title: "Schema", Notes: "by Friday", SourceQuote: "Sarah will do it next Tuesday"},
			want: "2025-10-21",
		},
		{
			name: "notes read before title",
			item: entities.RawActionItem{Title: "Review by Monday", Notes: "before end of month"},
			want: "2025-10-31",
		},
		{
			name: "no phrase keeps upstream",
			item: entities.RawActionItem{Title: "Set up CI", DueDate: "2025-10-20"},
			want: "2025-10-20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(tt.precedence, nil)
			result := a.Assemble(&entities.Draft{ActionItems: []entities.RawActionItem{tt.item}}, "run1", refDate)
			require.Len(t, result.ActionItems, 1)
			assert.Equal(t, tt.want, dueString(result.ActionItems[0].DueDate))
		})
	}
}

func TestAssemble_FieldNormalization(t *testing.T) {
	draft := &entities.Draft{
		Decisions: []entities.RawDecision{
			{Text: " Use React ", Owners: entities.TextList{"Sarah", " ", "Mike "}},
			{Text: "   "},
			{Text: "Ship weekly"},
		},
		ActionItems: []entities.RawActionItem{
			{Title: "Set up env", Owner: "John", Priority: "HIGH", Notes: "  "},
			{Title: "Write tests", Owner: "Unassigned", Priority: "urgent"},
			{Title: ""},
		},
		Risks: []entities.RawRisk{
			{Text: "Budget", Severity: "low"},
			{Text: "Timeline", Severity: "catastrophic", Mitigation: "cut scope"},
		},
		Strategy:       entities.StrategyHeuristic,
		FallbackReason: entities.FallbackParseError,
	}

	result := NewAssembler(ResolverWins, nil).Assemble(draft, "abc12345", refDate)

	require.Len(t, result.Decisions, 2)
	assert.Equal(t, "Use React", result.Decisions[0].Text)
	assert.Equal(t, []string{"Sarah", "Mike"}, result.Decisions[0].Owners)
	assert.NotNil(t, result.Decisions[1].Owners)
	assert.Empty(t, result.Decisions[1].Owners)

	require.Len(t, result.ActionItems, 2)
	assert.Equal(t, entities.LevelHigh, result.ActionItems[0].Priority)
	assert.Nil(t, result.ActionItems[0].Notes)
	assert.Equal(t, "Unassigned", *result.ActionItems[1].Owner)
	assert.Equal(t, entities.LevelMedium, result.ActionItems[1].Priority)

	require.Len(t, result.Risks, 2)
	assert.Equal(t, entities.LevelLow, result.Risks[0].Severity)
	assert.Equal(t, entities.LevelMedium, result.Risks[1].Severity)
	assert.Equal(t, "cut scope", *result.Risks[1].Mitigation)

	assert.Equal(t, "abc12345", result.RunID)
	assert.Equal(t, entities.StrategyHeuristic, result.Strategy)
	assert.Equal(t, entities.FallbackParseError, result.FallbackReason)
	assert.Equal(t, CountsSummary(2, 2, 2), result.SummaryMD)

	require.NoError(t, pkgvalidator.New().Validate(result))

	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"owners":[]`)
}

func TestAssemble_SummaryVerbatim(t *testing.T) {
	draft := &entities.Draft{SummaryMD: "## Notes\n\nAll good.\n"}
	result := NewAssembler(ResolverWins, nil).Assemble(draft, "r", refDate)
	assert.Equal(t, "## Notes\n\nAll good.\n", result.SummaryMD)
}

func TestAssemble_EmptyDraft(t *testing.T) {
	for _, draft := range []*entities.Draft{nil, {}} {
		result := NewAssembler(ResolverWins, nil).Assemble(draft, "r", refDate)
		assert.NotNil(t, result.Decisions)
		assert.NotNil(t, result.ActionItems)
		assert.NotNil(t, result.Risks)
		assert.Equal(t, CountsSummary(0, 0, 0), result.SummaryMD)
	}
}
