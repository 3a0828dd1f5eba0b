package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
)

// RedisCache shares a response cache across processes. Expiry is delegated
// to redis itself, so Sweep is a no-op.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// RedisOptions configures a redis-backed cache.
type RedisOptions struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedisClient creates the shared redis client used by all adapter caches.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// NewRedisCache creates a cache namespaced by the adapter's source tag.
func NewRedisCache(client *redis.Client, source string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "jobscout:" + source + ":",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]jobs.Job, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("redis cache get failed, treating as miss", zap.Error(err))
		return nil, false
	}

	var results []jobs.Job
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn("corrupt redis cache entry, treating as miss", zap.Error(err))
		return nil, false
	}
	return results, true
}

func (c *RedisCache) Set(ctx context.Context, key string, results []jobs.Job) {
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("marshal cache entry failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", zap.Error(err))
	}
}

func (c *RedisCache) Sweep(context.Context) {}
