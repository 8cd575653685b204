package cache

import (
	"context"
	"errors"
	"time"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

// ErrCacheMiss is returned when a key has no cached value.
var ErrCacheMiss = errors.New("cache miss")

// HistoryCache caches agent backend history responses.
type HistoryCache interface {
	Get(ctx context.Context, key string) (*domain.ChatHistory, error)
	Set(ctx context.Context, key string, history *domain.ChatHistory, ttl time.Duration) error
	BuildKey(strategyID string, limit int) string
	Close() error
}
