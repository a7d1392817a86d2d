package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gotcha-app/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the redis.Client with centralized connection pooling
type RedisClient struct {
	client *redis.Client
}

// Singleton instance (package-level)
var globalRedis *RedisClient

// NewRedisClient creates and initializes a Redis client from a redis:// URL.
func NewRedisClient(redisURL string) (*RedisClient, error) {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.MaxRetries = 3
	opts.PoolSize = 10
	opts.MinIdleConns = 5
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	rc := &RedisClient{client: client}
	globalRedis = rc

	logger.Log.Info("Redis client connected",
		zap.String("address", opts.Addr),
	)

	return rc, nil
}

// GetRedisClient returns the global Redis client instance, or nil when Redis
// was never initialized.
func GetRedisClient() *RedisClient {
	return globalRedis
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// Get retrieves a value from Redis
func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// SetEx stores a value in Redis with expiration
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Del deletes one or more keys from Redis
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// Incr increments a key value in Redis
func (rc *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return rc.client.Incr(ctx, key).Result()
}

// GetInt retrieves an integer value from Redis
func (rc *RedisClient) GetInt(ctx context.Context, key string) (int64, error) {
	return rc.client.Get(ctx, key).Int64()
}

// Expire sets an expiration timeout on a key
func (rc *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return rc.client.Expire(ctx, key, ttl).Err()
}

// TTL returns the time-to-live for a key
func (rc *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	return rc.client.TTL(ctx, key).Result()
}

// Ping tests the Redis connection
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
