package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RedisHistoryCache caches chat history pages in Redis.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
}

// NewRedisHistoryCache connects to Redis and verifies the connection.
func NewRedisHistoryCache(cfg RedisConfig, prefix string) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisHistoryCache{
		client: client,
		prefix: prefix,
	}, nil
}

// BuildKey derives the cache key for one history query.
func (c *RedisHistoryCache) BuildKey(strategyID string, limit int) string {
	if strategyID == "" {
		strategyID = "all"
	}
	return fmt.Sprintf("%s:%s:%d", c.prefix, strategyID, limit)
}

// Get returns the cached history page or ErrCacheMiss.
func (c *RedisHistoryCache) Get(ctx context.Context, key string) (*domain.ChatHistory, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var history domain.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &history, nil
}

// Set stores a history page under key for ttl.
func (c *RedisHistoryCache) Set(ctx context.Context, key string, history *domain.ChatHistory, ttl time.Duration) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

// Close closes the underlying Redis client.
func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
