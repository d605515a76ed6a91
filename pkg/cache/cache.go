package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "listings:"

// ErrUnavailable is returned by writes when Redis is not connected.
var ErrUnavailable = errors.New("redis client not available")

// RedisCache is a JSON cache on top of Redis. A nil *RedisCache is valid and
// behaves as a permanently empty cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects and pings Redis. It returns nil when Redis cannot be
// reached, so callers run uncached.
func NewRedisCache(ctx context.Context, redisURL string, db int, ttl time.Duration, log *zap.Logger) *RedisCache {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("failed to parse redis url", zap.Error(err))
		return nil
	}
	opt.DB = db

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis connection failed, running without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	log.Info("redis connected", zap.Int("db", db), zap.Duration("ttl", ttl))
	return New(client, ttl)
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key joins a kind and its parts into a namespaced key, e.g.
// listings:options:models:Toyota.
func Key(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(KeyPrefix)
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// GetJSON decodes the value at key into out. A miss returns false with no error.
func (r *RedisCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.IsAvailable() {
		return false, nil
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("json unmarshal error: %w", err)
	}
	return true, nil
}

// SetJSON stores v under key with the default TTL.
func (r *RedisCache) SetJSON(ctx context.Context, key string, v any) error {
	if !r.IsAvailable() {
		return ErrUnavailable
	}
	return r.SetJSONWithTTL(ctx, key, v, r.ttl)
}

func (r *RedisCache) SetJSONWithTTL(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !r.IsAvailable() {
		return ErrUnavailable
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCache) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *RedisCache) IsAvailable() bool {
	return r != nil && r.client != nil
}

func (r *RedisCache) TTL() time.Duration {
	if r == nil {
		return 0
	}
	return r.ttl
}

func (r *RedisCache) GetStats(ctx context.Context) map[string]interface{} {
	if !r.IsAvailable() {
		return map[string]interface{}{
			"status": "unavailable",
		}
	}

	info := r.client.Info(ctx, "memory").Val()
	return map[string]interface{}{
		"status":      "connected",
		"ttl_seconds": int(r.ttl.Seconds()),
		"keys":        len(r.GetAllKeys(ctx)),
		"memory_info": info,
	}
}

// GetAllKeys lists the keys written by this service.
func (r *RedisCache) GetAllKeys(ctx context.Context) []string {
	if !r.IsAvailable() {
		return []string{}
	}
	keys, err := r.client.Keys(ctx, KeyPrefix+"*").Result()
	if err != nil {
		return []string{}
	}
	return keys
}

// FlushCache deletes the keys written by this service, leaving the rest of
// the database alone. It returns the number of keys removed.
func (r *RedisCache) FlushCache(ctx context.Context) (int64, error) {
	if !r.IsAvailable() {
		return 0, ErrUnavailable
	}
	keys := r.GetAllKeys(ctx)
	if len(keys) == 0 {
		return 0, nil
	}
	return r.client.Del(ctx, keys...).Result()
}

func (r *RedisCache) GetKeyTTL(ctx context.Context, key string) time.Duration {
	if !r.IsAvailable() {
		return 0
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0
	}
	return ttl
}
