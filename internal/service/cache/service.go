package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/snsgen-go/internal/constants"
	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

const (
	brandKeyPrefix = "snsgen:brand:"
	usageKeyPrefix = "snsgen:usage:"
	resultKeyFmt   = "snsgen:result:%s"
)

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("exists failed", "exists", key, err)
	}
	return count > 0, nil
}

// GetBrandProfile returns the cached brand profile, or nil on a miss. Cache
// errors are reported as misses so a Redis hiccup never blocks generation.
func (c *CacheService) GetBrandProfile(ctx context.Context, brandID string) *domain.BrandProfile {
	var profile domain.BrandProfile
	if err := c.Get(ctx, brandKeyPrefix+brandID, &profile); err != nil {
		c.logger.Debug("Brand profile cache miss", zap.String("brand_id", brandID))
		return nil
	}
	if profile.ID == "" {
		return nil
	}
	return &profile
}

func (c *CacheService) SetBrandProfile(ctx context.Context, profile *domain.BrandProfile) {
	if profile == nil || profile.ID == "" {
		return
	}
	if err := c.Set(ctx, brandKeyPrefix+profile.ID, profile, constants.CacheTTL.BrandProfile); err != nil {
		c.logger.Error("Failed to cache brand profile", zap.String("brand_id", profile.ID), zap.Error(err))
	}
}

// CacheResult keeps a completed generation reachable by request ID for a short
// window so the history page can render it without a DB round trip.
func (c *CacheService) CacheResult(ctx context.Context, requestID string, record *domain.GenerationRecord) {
	key := fmt.Sprintf(resultKeyFmt, requestID)
	if err := c.Set(ctx, key, record, constants.CacheTTL.RecentRequest); err != nil {
		c.logger.Error("Failed to cache generation result", zap.String("request_id", requestID), zap.Error(err))
	}
}

func (c *CacheService) GetCachedResult(ctx context.Context, requestID string) (*domain.GenerationRecord, bool) {
	key := fmt.Sprintf(resultKeyFmt, requestID)
	var record domain.GenerationRecord
	if err := c.Get(ctx, key, &record); err != nil {
		return nil, false
	}
	if record.RequestID == "" {
		return nil, false
	}
	return &record, true
}

// IncrementUsage bumps the user's generation counter for the given month.
// The key expires well past month end so the subscription page can still show
// the closing number.
func (c *CacheService) IncrementUsage(ctx context.Context, userID string, month time.Time) (int64, error) {
	key := usageKey(userID, month)

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		c.logger.Error("Usage increment failed", zap.String("key", key), zap.Error(err))
		return 0, errors.NewCacheError("incr failed", "incr", key, err)
	}

	if count == 1 {
		if err := c.client.Expire(ctx, key, constants.CacheTTL.UsageCounter).Err(); err != nil {
			c.logger.Error("Usage expire failed", zap.String("key", key), zap.Error(err))
		}
	}

	return count, nil
}

func (c *CacheService) GetUsage(ctx context.Context, userID string, month time.Time) (int64, error) {
	key := usageKey(userID, month)

	value, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		c.logger.Error("Usage read failed", zap.String("key", key), zap.Error(err))
		return 0, errors.NewCacheError("get failed", "get", key, err)
	}
	return value, nil
}

func usageKey(userID string, month time.Time) string {
	return usageKeyPrefix + userID + ":" + month.Format("2006-01")
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}
