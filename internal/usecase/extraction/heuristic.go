package extraction

import (
	"context"
	"regexp"
	"strings"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

var (
	decisionKeywords = []string{"decided", "decision", "agreed", "resolved"}
	actionKeywords   = []string{"action:", "todo:", "task:", "will do", "needs to"}
	riskKeywords     = []string{"risk", "blocker", "concern", "issue"}

	actionLabel = regexp.MustCompile(`(?i)^(action:|todo:|task:)\s*`)
)

// HeuristicExtractor classifies transcript lines by keyword.
// It never fails and needs no network.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract returns one record per matching line. A line goes to the first
// family that matches, in decision, action, risk order.
func (h *HeuristicExtractor) Extract(_ context.Context, transcript string) (*entities.Draft, error) {
	draft := &entities.Draft{Strategy: entities.StrategyHeuristic}

	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case containsAny(lower, decisionKeywords):
			draft.Decisions = append(draft.Decisions, entities.RawDecision{Text: entities.Text(line)})
		case containsAny(lower, actionKeywords):
			title := actionLabel.ReplaceAllString(line, "")
			draft.ActionItems = append(draft.ActionItems, entities.RawActionItem{Title: entities.Text(title)})
		case containsAny(lower, riskKeywords):
			draft.Risks = append(draft.Risks, entities.RawRisk{Text: entities.Text(line)})
		}
	}

	draft.SummaryMD = entities.Text(CountsSummary(len(draft.Decisions), len(draft.ActionItems), len(draft.Risks)))
	return draft, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
