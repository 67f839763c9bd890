package repositories

import (
	"context"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

// ResultRepository keeps recent extraction results addressable by run id
type ResultRepository interface {
	// Save stores a result under its run id, replacing any previous one
	Save(ctx context.Context, result *entities.ExtractionResult) error

	// FindByRunID returns the stored result or usecase errors.ErrRunNotFound
	FindByRunID(ctx context.Context, runID string) (*entities.ExtractionResult, error)
}
