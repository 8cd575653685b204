package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/banzai-team/spoon-rebalancing/internal/cache"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// historyServiceImpl reads chat history from the agent backend through an
// optional Redis cache. Concurrent requests for the same page are
// collapsed into one upstream call.
type historyServiceImpl struct {
	fetcher  historyFetcher
	cache    cache.HistoryCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

// NewHistoryService creates a HistoryLoader. histCache may be nil, in
// which case every load goes straight to the backend.
func NewHistoryService(fetcher historyFetcher, histCache cache.HistoryCache, cacheTTL time.Duration) HistoryLoader {
	return &historyServiceImpl{
		fetcher:  fetcher,
		cache:    histCache,
		cacheTTL: cacheTTL,
	}
}

func (s *historyServiceImpl) Load(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error) {
	if s.cache == nil {
		return s.fetcher.History(ctx, strategyID, limit)
	}

	key := s.cache.BuildKey(strategyID, limit)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fetchWithCache(ctx, strategyID, limit, key)
	})
	if err != nil {
		return nil, err
	}

	history, ok := result.(*domain.ChatHistory)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return history, nil
}

func (s *historyServiceImpl) fetchWithCache(ctx context.Context, strategyID string, limit int, key string) (*domain.ChatHistory, error) {
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("history cache get error")
	}

	history, err := s.fetcher.History(ctx, strategyID, limit)
	if err != nil {
		// Hard failure: no stale or partial history is substituted.
		return nil, err
	}

	// Store in cache without blocking the response.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(cacheCtx, key, history, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("history cache set error")
		}
	}()

	return history, nil
}
