// Package bootstrap wires the extraction service from configuration.
// The API server and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/internal/adapter/repository"
	"github.com/johnquangdev/followupsync/internal/infrastructure/cache"
	"github.com/johnquangdev/followupsync/internal/infrastructure/storage"
	"github.com/johnquangdev/followupsync/internal/usecase/extraction"
	"github.com/johnquangdev/followupsync/pkg/ai"
	"github.com/johnquangdev/followupsync/pkg/config"
)

// Result store names reported by /v1/status
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// redisConnectTimeout bounds the retries when Redis is enabled
const redisConnectTimeout = 15 * time.Second

// App holds the wired service and the resources it owns
type App struct {
	Service     extraction.Service
	Generator   ai.Client
	Storage     *storage.MinIOClient
	ResultStore string

	store cache.Store
}

// GeneratorName returns the backend name, or "" in local mode
func (a *App) GeneratorName() string {
	if a.Generator == nil {
		return ""
	}
	return a.Generator.Name()
}

// Close releases the result store
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// New builds the extraction service. rec may be nil.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, rec extraction.Recorder) (*App, error) {
	app := &App{}

	gen, err := ai.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	app.Generator = gen

	sources := []extraction.PromptSource{extraction.FilePromptSource{Path: cfg.Extract.PromptPath}}
	if cfg.Storage.Enabled {
		if logger != nil {
			logger.Info("📦 Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
		}
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		app.Storage = minioClient
		if cfg.Extract.PromptObject != "" {
			// object storage takes priority over the local file
			sources = append([]extraction.PromptSource{extraction.ObjectPromptSource{
				Reader: minioClient,
				Object: cfg.Extract.PromptObject,
			}}, sources...)
		}
	}

	store, name, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.store = store
	app.ResultStore = name

	var extractor extraction.Extractor
	if gen != nil {
		prompt := extraction.LoadSystemPrompt(ctx, logger, sources...)
		extractor = extraction.NewExtractor(gen, prompt, cfg.Extract.Timeout, logger, rec)
	} else {
		extractor = extraction.NewHeuristicExtractor()
	}

	precedence := extraction.ResolverWins
	if cfg.Extract.DatePrecedence == config.PrecedenceUpstreamWins {
		precedence = extraction.UpstreamWins
	}

	app.Service = extraction.NewService(extractor, extraction.NewAssembler(precedence, logger), extraction.Options{
		Results:            repository.NewResultRepository(store, cfg.Extract.ResultTTL),
		Recorder:           rec,
		Logger:             logger,
		Location:           cfg.Location(),
		MaxTranscriptBytes: cfg.Extract.MaxTranscriptBytes,
	})

	if logger != nil {
		logger.Info("✅ Extraction service initialized",
			zap.String("mode", cfg.Extract.Mode),
			zap.String("generator", app.GeneratorName()),
			zap.String("result_store", name),
		)
	}
	return app, nil
}

// newStore connects to Redis when enabled, retrying with backoff, and
// otherwise returns an in-process store
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, string, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryStore(), StoreMemory, nil
	}

	if logger != nil {
		logger.Info("📦 Connecting to Redis...", zap.String("addr", cfg.GetRedisAddr()))
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = redisConnectTimeout

	var store *cache.RedisStore
	connect := func() error {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			if logger != nil {
				logger.Warn("Redis not ready, retrying", zap.Error(err))
			}
			return err
		}
		store = cache.NewRedisStore(client)
		return nil
	}
	if err := backoff.Retry(connect, backoff.WithContext(bo, ctx)); err != nil {
		return nil, "", fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return store, StoreRedis, nil
}
