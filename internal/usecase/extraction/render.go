package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

// Artifact file names
const (
	SummaryFileName     = "Summary.md"
	ActionItemsFileName = "ActionItems.json"
)

// CountsSummary is the minimal summary used when nothing richer is available
func CountsSummary(decisions, actions, risks int) string {
	return fmt.Sprintf("# Meeting Summary\n\n**Decisions:** %d\n**Action Items:** %d\n**Risks:** %d", decisions, actions, risks)
}

// RenderMarkdown renders the result as a Markdown summary.
// Sections without records are left out.
func RenderMarkdown(result *entities.ExtractionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Meeting Summary - %s\n\n", result.RunID)

	if len(result.Decisions) > 0 {
		b.WriteString("## Decisions\n")
		for i, d := range result.Decisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d.Text)
			if len(d.Owners) > 0 {
				fmt.Fprintf(&b, "   - Owners: %s\n", strings.Join(d.Owners, ", "))
			}
		}
		b.WriteString("\n")
	}

	if len(result.ActionItems) > 0 {
		b.WriteString("## Action Items\n")
		for i, item := range result.ActionItems {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, item.Title)
			if item.Owner != nil {
				fmt.Fprintf(&b, "   - Owner: %s\n", *item.Owner)
			}
			if item.DueDate != nil {
				fmt.Fprintf(&b, "   - Due: %s\n", item.DueDate)
			}
			if item.Priority != "" {
				fmt.Fprintf(&b, "   - Priority: %s\n", item.Priority)
			}
		}
		b.WriteString("\n")
	}

	if len(result.Risks) > 0 {
		b.WriteString("## Risks & Blockers\n")
		for i, r := range result.Risks {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r.Text)
			if r.Severity != "" {
				fmt.Fprintf(&b, "   - Severity: %s\n", r.Severity)
			}
			if r.Mitigation != nil {
				fmt.Fprintf(&b, "   - Mitigation: %s\n", *r.Mitigation)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderActionItemsJSON renders the whole result as indented JSON
func RenderActionItemsJSON(result *entities.ExtractionResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// RenderArtifacts returns the downloadable files for a result keyed by file name
func RenderArtifacts(result *entities.ExtractionResult) (map[string][]byte, error) {
	js, err := RenderActionItemsJSON(result)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", ActionItemsFileName, err)
	}
	return map[string][]byte{
		SummaryFileName:     []byte(RenderMarkdown(result)),
		ActionItemsFileName: js,
	}, nil
}

// Digest is a chat-ready rendition: one headline plus one thread reply per action item
type Digest struct {
	Headline string   `json:"headline"`
	Replies  []string `json:"replies"`
}

// ChatDigest formats a result for posting into a chat channel
func ChatDigest(result *entities.ExtractionResult) Digest {
	d, a, r := result.Counts()
	digest := Digest{
		Headline: fmt.Sprintf("📋 Meeting Summary - %s\nDecisions: %d | Actions: %d | Risks: %d", result.RunID, d, a, r),
		Replies:  make([]string, 0, a),
	}
	for _, item := range result.ActionItems {
		line := "🎯 " + item.Title
		if item.Owner != nil {
			line += fmt.Sprintf(" (@%s)", *item.Owner)
		}
		if item.DueDate != nil {
			line += " - Due: " + item.DueDate.String()
		}
		digest.Replies = append(digest.Replies, line)
	}
	return digest
}
