package chat

import (
	"context"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
)

// Relayer forwards one conversational turn to the agent backend.
// *agent.Client is the production implementation.
type Relayer interface {
	Relay(ctx context.Context, turn *domain.ChatTurnRequest) (*domain.AgentTurnResult, error)
}

// HistoryLoader retrieves prior turns, optionally scoped to a strategy.
type HistoryLoader interface {
	Load(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error)
}

// historyFetcher is the upstream the history service reads through.
type historyFetcher interface {
	History(ctx context.Context, strategyID string, limit int) (*domain.ChatHistory, error)
}
