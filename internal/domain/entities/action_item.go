package entities

import "github.com/johnquangdev/followupsync/pkg/temporal"

// Placeholder due date some generators echo back from the prompt template
const DueDatePlaceholder = "YYYY-MM-DD"

// OwnerUnassigned is the conventional owner for unclaimed tasks
const OwnerUnassigned = "Unassigned"

// ActionItem is a follow-up task extracted from a meeting
type ActionItem struct {
	Title       string         `json:"title" validate:"required"`
	Owner       *string        `json:"owner"`
	DueDate     *temporal.Date `json:"due_date"`
	Priority    Level          `json:"priority" validate:"oneof=Low Medium High"`
	Notes       *string        `json:"notes"`
	SourceQuote *string        `json:"source_quote"`
}

// Decision is a conclusion the meeting reached
type Decision struct {
	Text      string   `json:"text" validate:"required"`
	Rationale *string  `json:"rationale"`
	Owners    []string `json:"owners"`
}

// Risk is a blocker or concern raised in the meeting
type Risk struct {
	Text       string  `json:"text" validate:"required"`
	Severity   Level   `json:"severity" validate:"oneof=Low Medium High"`
	Mitigation *string `json:"mitigation"`
}
