package extraction

import (
	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

// Counts summarises how many records a run produced
type Counts struct {
	Decisions   int `json:"decisions"`
	ActionItems int `json:"action_items"`
	Risks       int `json:"risks"`
}

// ExtractionResponse represents an extraction result with its artifact links
type ExtractionResponse struct {
	*entities.ExtractionResult
	Counts    Counts            `json:"counts"`
	Artifacts map[string]string `json:"artifacts"`
}

// StatusResponse represents the service status
type StatusResponse struct {
	Status      string                 `json:"status"`
	Environment string                 `json:"environment"`
	Mode        string                 `json:"mode"`
	Generator   string                 `json:"generator"`
	ResultStore string                 `json:"result_store"`
	Storage     map[string]interface{} `json:"storage,omitempty"`
}
