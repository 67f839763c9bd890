package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/internal/domain/repositories"
	"github.com/johnquangdev/followupsync/internal/infrastructure/cache"
	usecaseErrors "github.com/johnquangdev/followupsync/internal/usecase/errors"
)

const resultKeyPrefix = "followupsync:result:"

// ResultRepository stores extraction results as JSON in a cache.Store
type ResultRepository struct {
	store cache.Store
	ttl   time.Duration
}

var _ repositories.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a repository whose entries expire after ttl
func NewResultRepository(store cache.Store, ttl time.Duration) *ResultRepository {
	return &ResultRepository{store: store, ttl: ttl}
}

func resultKey(runID string) string {
	return resultKeyPrefix + runID
}

// Save stores a result under its run id
func (r *ResultRepository) Save(ctx context.Context, result *entities.ExtractionResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result %s: %w", result.RunID, err)
	}
	if err := r.store.Set(ctx, resultKey(result.RunID), string(b), r.ttl); err != nil {
		return fmt.Errorf("%w: %v", usecaseErrors.ErrCacheUnavailable, err)
	}
	return nil
}

// FindByRunID loads a stored result
func (r *ResultRepository) FindByRunID(ctx context.Context, runID string) (*entities.ExtractionResult, error) {
	raw, ok, err := r.store.Get(ctx, resultKey(runID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrCacheUnavailable, err)
	}
	if !ok {
		return nil, usecaseErrors.ErrRunNotFound
	}

	var result entities.ExtractionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", runID, err)
	}
	return &result, nil
}
