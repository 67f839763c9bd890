package entities

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Draft holds raw records before normalization.
// Field shapes are loose because generated JSON rarely matches a schema exactly.
type Draft struct {
	Decisions   []RawDecision   `json:"decisions"`
	ActionItems []RawActionItem `json:"action_items"`
	Risks       []RawRisk       `json:"risks"`
	SummaryMD   Text            `json:"summary_md"`

	Strategy       Strategy `json:"-"`
	FallbackReason string   `json:"-"`
}

type RawDecision struct {
	Text      Text     `json:"text"`
	Rationale Text     `json:"rationale"`
	Owners    TextList `json:"owners"`
}

type RawActionItem struct {
	Title       Text `json:"title"`
	Owner       Text `json:"owner"`
	DueDate     Text `json:"due_date"`
	Priority    Text `json:"priority"`
	Notes       Text `json:"notes"`
	SourceQuote Text `json:"source_quote"`
}

type RawRisk struct {
	Text       Text `json:"text"`
	Severity   Text `json:"severity"`
	Mitigation Text `json:"mitigation"`
}

// Text decodes strings, numbers, booleans and null into a string.
// A list of strings is joined with ", ". Objects decode to blank text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '[':
		var list TextList
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = Text(strings.Join(list, ", "))
	case b[0] == '{':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

// String returns the trimmed value
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Ptr returns nil for blank text
func (t Text) Ptr() *string {
	s := t.String()
	if s == "" {
		return nil
	}
	return &s
}

// TextList decodes a list of strings, a single string, or null
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var single Text
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*l = splitOwners(single.String())
		return nil
	}
	var items []Text
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(TextList, 0, len(items))
	for _, it := range items {
		if s := it.String(); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

func splitOwners(s string) TextList {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(TextList, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
