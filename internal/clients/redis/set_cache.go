package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// SetCache caches the latest assembled set per (user, time window) so the
// hot read path can skip Postgres. Misses and marshal errors fall through to
// the repo; the cache is never authoritative.
type SetCache interface {
	PutLatest(ctx context.Context, set *types.AssembledRecommendationSet) error
	GetLatest(ctx context.Context, userID, timeWindow string) (*types.AssembledRecommendationSet, error)
	Close() error
}

type setCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewSetCache(log *logger.Logger, ttl time.Duration) (SetCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &setCache{
		log: log.With("service", "RedisSetCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID, timeWindow string) string {
	return fmt.Sprintf("recset:latest:%s:%s", userID, timeWindow)
}

func (c *setCache) PutLatest(ctx context.Context, set *types.AssembledRecommendationSet) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis set cache not initialized")
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal assembled set: %w", err)
	}
	return c.rdb.Set(ctx, cacheKey(set.UserID, set.TimeWindow), raw, c.ttl).Err()
}

func (c *setCache) GetLatest(ctx context.Context, userID, timeWindow string) (*types.AssembledRecommendationSet, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("redis set cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, cacheKey(userID, timeWindow)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var set types.AssembledRecommendationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		c.log.Warn("Corrupt cached recommendation set, ignoring", "user_id", userID, "error", err)
		return nil, nil
	}
	return &set, nil
}

func (c *setCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
