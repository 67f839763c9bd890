package presenter

import (
	"github.com/johnquangdev/followupsync/internal/adapter/dto/extraction"
	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

// runBasePath is the URL prefix of a stored run
const runBasePath = "/v1/extractions/"

// ToExtractionResponse converts an ExtractionResult entity to ExtractionResponse DTO
func ToExtractionResponse(r *entities.ExtractionResult) *extraction.ExtractionResponse {
	if r == nil {
		return nil
	}

	d, a, k := r.Counts()
	base := runBasePath + r.RunID
	return &extraction.ExtractionResponse{
		ExtractionResult: r,
		Counts:           extraction.Counts{Decisions: d, ActionItems: a, Risks: k},
		Artifacts: map[string]string{
			"summary_md":        base + "/summary.md",
			"action_items_json": base + "/action-items.json",
			"digest":            base + "/digest",
		},
	}
}
