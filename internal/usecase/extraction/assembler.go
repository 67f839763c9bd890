package extraction

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

// DatePrecedence decides who wins when the resolver and the upstream both date an item
type DatePrecedence string

const (
	// ResolverWins lets a phrase found in the item text override any upstream date
	ResolverWins DatePrecedence = "resolver_wins"
	// UpstreamWins only uses the resolver when the upstream gave no usable date
	UpstreamWins DatePrecedence = "upstream_wins"
)

// staleYears is how many years back a generated date may point before it is
// treated as a model that forgot what year it is
const staleYears = 2

// Assembler normalizes a draft into the canonical result
type Assembler struct {
	precedence DatePrecedence
	logger     *zap.Logger
}

func NewAssembler(precedence DatePrecedence, logger *zap.Logger) *Assembler {
	if precedence != UpstreamWins {
		precedence = ResolverWins
	}
	return &Assembler{precedence: precedence, logger: logger}
}

// Assemble builds the result for runID. ref is the date relative phrases and
// stale years are judged against.
func (a *Assembler) Assemble(draft *entities.Draft, runID string, ref temporal.Date) *entities.ExtractionResult {
	result := &entities.ExtractionResult{
		RunID:       runID,
		Decisions:   make([]entities.Decision, 0),
		ActionItems: make([]entities.ActionItem, 0),
		Risks:       make([]entities.Risk, 0),
	}
	if draft == nil {
		result.SummaryMD = CountsSummary(0, 0, 0)
		return result
	}
	result.Strategy = draft.Strategy
	result.FallbackReason = draft.FallbackReason

	dropped := 0
	for _, raw := range draft.Decisions {
		d, ok := a.decision(raw)
		if !ok {
			dropped++
			continue
		}
		result.Decisions = append(result.Decisions, d)
	}
	for _, raw := range draft.ActionItems {
		item, ok := a.actionItem(raw, ref)
		if !ok {
			dropped++
			continue
		}
		result.ActionItems = append(result.ActionItems, item)
	}
	for _, raw := range draft.Risks {
		r, ok := a.risk(raw)
		if !ok {
			dropped++
			continue
		}
		result.Risks = append(result.Risks, r)
	}

	if dropped > 0 && a.logger != nil {
		a.logger.Warn("Dropped records without text",
			zap.String("run_id", runID),
			zap.Int("dropped", dropped),
		)
	}

	if summary := string(draft.SummaryMD); strings.TrimSpace(summary) != "" {
		result.SummaryMD = summary
	} else {
		result.SummaryMD = CountsSummary(result.Counts())
	}
	return result
}

func (a *Assembler) decision(raw entities.RawDecision) (entities.Decision, bool) {
	text := raw.Text.String()
	if text == "" {
		return entities.Decision{}, false
	}
	owners := make([]string, 0, len(raw.Owners))
	for _, o := range raw.Owners {
		if o = strings.TrimSpace(o); o != "" {
			owners = append(owners, o)
		}
	}
	return entities.Decision{Text: text, Rationale: raw.Rationale.Ptr(), Owners: owners}, true
}

func (a *Assembler) risk(raw entities.RawRisk) (entities.Risk, bool) {
	text := raw.Text.String()
	if text == "" {
		return entities.Risk{}, false
	}
	return entities.Risk{
		Text:       text,
		Severity:   entities.ParseLevel(raw.Severity.String()),
		Mitigation: raw.Mitigation.Ptr(),
	}, true
}

func (a *Assembler) actionItem(raw entities.RawActionItem, ref temporal.Date) (entities.ActionItem, bool) {
	title := raw.Title.String()
	if title == "" {
		return entities.ActionItem{}, false
	}
	item := entities.ActionItem{
		Title:       title,
		Owner:       raw.Owner.Ptr(),
		DueDate:     NormalizeDueDate(raw.DueDate.String(), ref),
		Priority:    entities.ParseLevel(raw.Priority.String()),
		Notes:       raw.Notes.Ptr(),
		SourceQuote: raw.SourceQuote.Ptr(),
	}

	if a.precedence == UpstreamWins && item.DueDate != nil {
		return item, true
	}
	if resolved, ok := temporal.Resolve(resolverInput(item), ref); ok {
		item.DueDate = &resolved
	}
	return item, true
}

// resolverInput is the first non-empty of source quote, notes and title
func resolverInput(item entities.ActionItem) string {
	if item.SourceQuote != nil && *item.SourceQuote != "" {
		return *item.SourceQuote
	}
	if item.Notes != nil && *item.Notes != "" {
		return *item.Notes
	}
	return item.Title
}

// NormalizeDueDate turns an upstream due date into a valid calendar date or nil.
// Placeholders, blanks and unparseable values are dropped. Years one or two
// behind ref are moved to ref's year; if that lands on a date that does not
// exist the value is dropped too.
func NormalizeDueDate(raw string, ref temporal.Date) *temporal.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, entities.DueDatePlaceholder) {
		return nil
	}
	// keep the date part of full timestamps
	if len(raw) > 10 && raw[10] == 'T' {
		raw = raw[:10]
	}

	for back := 1; back <= staleYears; back++ {
		prefix := fmt.Sprintf("%04d-", ref.Year-back)
		if strings.HasPrefix(raw, prefix) {
			raw = fmt.Sprintf("%04d-", ref.Year) + strings.TrimPrefix(raw, prefix)
			break
		}
	}

	d, err := temporal.Parse(raw)
	if err != nil {
		return nil
	}
	return &d
}
