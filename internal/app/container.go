package app

import (
	"context"
	"fmt"

	"github.com/kapu/snsgen-go/internal/backend"
	"github.com/kapu/snsgen-go/internal/config"
	"github.com/kapu/snsgen-go/internal/constants"
	"github.com/kapu/snsgen-go/internal/generator"
	"github.com/kapu/snsgen-go/internal/server"
	"github.com/kapu/snsgen-go/internal/service/cache"
	"github.com/kapu/snsgen-go/internal/service/history"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *server.Server

	closers []func()
}

// Close tears services down in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles cache, storage, the backend provider chain, and the HTTP
// surface. All heavy-weight initialization happens here so main stays thin.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache and storage. The cache is optional: generation still works if
	// Redis is down, only usage counters and result caching are lost.
	cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if cacheErr != nil {
		logger.Warn("Redis unavailable, continuing without cache", zap.Error(cacheErr))
		cacheSvc = nil
	} else {
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	}

	store, err := history.NewStore(history.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}
	closers = append(closers, func() {
		_ = store.Close()
	})

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure history schema: %w", err)
	}

	// Backend provider chain: Anthropic primary, optional OpenAI and Gemini
	// fallbacks gated on their API keys.
	primary := backend.NewAnthropicProvider(
		cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL, logger)

	var fallbacks []backend.Provider
	if cfg.OpenAI.EnableFallback {
		if p := backend.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger); p != nil {
			fallbacks = append(fallbacks, p)
			logger.Info("OpenAI fallback enabled", zap.String("model", cfg.OpenAI.Model))
		}
	}
	if cfg.Gemini.APIKey != "" {
		gemini, err := backend.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		if gemini != nil {
			fallbacks = append(fallbacks, gemini)
			logger.Info("Gemini fallback enabled", zap.String("model", cfg.Gemini.Model))
		}
	}

	manager := backend.NewManager(primary, fallbacks, backend.RetryPolicy{
		MaxAttempts: constants.RetryConfig.MaxAttempts,
		BaseDelay:   constants.RetryConfig.BaseDelay,
		Jitter:      constants.RetryConfig.Jitter,
	}, logger)

	gen := generator.NewService(manager, logger)

	handler := server.NewHandler(gen, store, cacheSvc, manager, logger)
	srv := server.NewServer(cfg.Server.Addr, handler, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Server:  srv,
		closers: closers,
	}, nil
}
