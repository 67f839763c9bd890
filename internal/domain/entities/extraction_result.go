package entities

// Strategy names the extraction path that produced a result
type Strategy string

const (
	StrategyLLM       Strategy = "llm"
	StrategyHeuristic Strategy = "heuristic"
)

// Reasons recorded when the generative path hands over to the heuristic one
const (
	FallbackUpstreamError = "upstream_error"
	FallbackParseError    = "parse_error"
)

// ExtractionResult is the canonical output for one transcript
type ExtractionResult struct {
	RunID          string       `json:"run_id" validate:"required"`
	Decisions      []Decision   `json:"decisions" validate:"dive"`
	ActionItems    []ActionItem `json:"action_items" validate:"dive"`
	Risks          []Risk       `json:"risks" validate:"dive"`
	SummaryMD      string       `json:"summary_md" validate:"required"`
	Strategy       Strategy     `json:"strategy,omitempty"`
	FallbackReason string       `json:"fallback_reason,omitempty"`
}

// Counts returns the number of decisions, action items and risks
func (r *ExtractionResult) Counts() (decisions, actions, risks int) {
	return len(r.Decisions), len(r.ActionItems), len(r.Risks)
}
