package extraction

// CreateExtractionRequest represents the request to extract artifacts from a transcript
type CreateExtractionRequest struct {
	Transcript    string `json:"transcript" validate:"required"`
	RunID         string `json:"run_id,omitempty" validate:"omitempty,max=64"`
	ReferenceDate string `json:"reference_date,omitempty" validate:"omitempty,isodate"`
}

// GetExtractionRequest represents the path parameters for fetching a run
type GetExtractionRequest struct {
	RunID string `param:"run_id"`
}
