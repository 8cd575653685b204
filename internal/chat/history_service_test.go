package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/cache"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	history *domain.ChatHistory
	err     error
}

func (f *stubFetcher) History(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*domain.ChatHistory
	getErr  error
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*domain.ChatHistory)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*domain.ChatHistory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	if h, ok := c.entries[key]; ok {
		return h, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) Set(ctx context.Context, key string, history *domain.ChatHistory, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = history
	c.sets++
	return nil
}

func (c *memoryCache) BuildKey(strategyID string, limit int) string {
	if strategyID == "" {
		strategyID = "all"
	}
	return "test:" + strategyID
}

func (c *memoryCache) Close() error { return nil }

func TestHistoryServiceNilCachePassesThrough(t *testing.T) {
	fetcher := &stubFetcher{history: &domain.ChatHistory{Total: 3}}
	svc := NewHistoryService(fetcher, nil, time.Minute)

	history, err := svc.Load(context.Background(), "strat-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, history.Total)
	assert.Equal(t, 1, fetcher.calls)
}

func TestHistoryServiceCacheHitSkipsBackend(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("backend must not be called")}
	mc := newMemoryCache()
	mc.entries["test:strat-1"] = &domain.ChatHistory{Total: 7}

	svc := NewHistoryService(fetcher, mc, time.Minute)

	history, err := svc.Load(context.Background(), "strat-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 7, history.Total)
	assert.Zero(t, fetcher.calls)
}

func TestHistoryServiceCacheMissFetchesAndStores(t *testing.T) {
	fetcher := &stubFetcher{history: &domain.ChatHistory{Total: 5}}
	mc := newMemoryCache()
	svc := NewHistoryService(fetcher, mc, time.Minute)

	history, err := svc.Load(context.Background(), "strat-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, history.Total)
	assert.Equal(t, 1, fetcher.calls)

	// The cache set runs off the request path.
	assert.Eventually(t, func() bool {
		mc.mu.Lock()
		defer mc.mu.Unlock()
		return mc.sets == 1
	}, time.Second, time.Millisecond)
}

func TestHistoryServiceCacheErrorFallsBackToBackend(t *testing.T) {
	fetcher := &stubFetcher{history: &domain.ChatHistory{Total: 2}}
	mc := newMemoryCache()
	mc.getErr = errors.New("redis connection reset")

	svc := NewHistoryService(fetcher, mc, time.Minute)

	history, err := svc.Load(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Total)
	assert.Equal(t, 1, fetcher.calls)
}

func TestHistoryServiceBackendFailurePropagates(t *testing.T) {
	fetcher := &stubFetcher{err: agent.ErrBackendUnavailable}
	svc := NewHistoryService(fetcher, newMemoryCache(), time.Minute)

	_, err := svc.Load(context.Background(), "strat-1", 10)
	assert.ErrorIs(t, err, agent.ErrBackendUnavailable)
}
