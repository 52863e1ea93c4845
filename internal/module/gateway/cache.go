package gateway

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/votely/server/internal/module/region"
	"go.uber.org/zap"
)

const configKeyPrefix = "gateway:config:"

// CachedRepository wraps a Repository with a short-TTL redis cache.
// Configs are read on every checkout, change rarely, and a short TTL
// keeps admin edits visible within a minute.
type CachedRepository struct {
	inner  Repository
	redis  goredis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository creates a cached gateway configuration repository.
// A nil redis client disables caching.
func NewCachedRepository(inner Repository, redis goredis.UniversalClient, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedRepository{inner: inner, redis: redis, ttl: ttl, logger: logger}
}

func (r *CachedRepository) GetByRegion(ctx context.Context, reg region.Region) (*Config, error) {
	if r.redis == nil {
		return r.inner.GetByRegion(ctx, reg)
	}

	key := configKeyPrefix + string(reg)
	if data, err := r.redis.Get(ctx, key).Bytes(); err == nil {
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
		// Corrupt entry, fall through to the database.
		r.redis.Del(ctx, key)
	}

	cfg, err := r.inner.GetByRegion(ctx, reg)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("failed to cache gateway config", zap.Error(err))
		}
	}

	return cfg, nil
}

func (r *CachedRepository) Upsert(ctx context.Context, cfg *Config) error {
	if err := r.inner.Upsert(ctx, cfg); err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Del(ctx, configKeyPrefix+string(cfg.Region))
	}
	return nil
}

func (r *CachedRepository) List(ctx context.Context) ([]*Config, error) {
	return r.inner.List(ctx)
}
