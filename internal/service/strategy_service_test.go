package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/internal/repository"
)

type fakeWalletRepo struct {
	wallets map[string]*domain.Wallet
}

func newFakeWalletRepo(ids ...string) *fakeWalletRepo {
	r := &fakeWalletRepo{wallets: make(map[string]*domain.Wallet)}
	for _, id := range ids {
		r.wallets[id] = &domain.Wallet{ID: id}
	}
	return r
}

func (r *fakeWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	if w.ID == "" {
		w.ID = "w-generated"
	}
	r.wallets[w.ID] = w
	return nil
}

func (r *fakeWalletRepo) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	out := make([]domain.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWalletRepo) Update(ctx context.Context, w *domain.Wallet) error {
	if _, ok := r.wallets[w.ID]; !ok {
		return repository.ErrWalletNotFound
	}
	r.wallets[w.ID] = w
	return nil
}

func (r *fakeWalletRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.wallets[id]; !ok {
		return repository.ErrWalletNotFound
	}
	delete(r.wallets, id)
	return nil
}

type fakeStrategyRepo struct {
	strategies map[string]*domain.Strategy
}

func newFakeStrategyRepo() *fakeStrategyRepo {
	return &fakeStrategyRepo{strategies: make(map[string]*domain.Strategy)}
}

func (r *fakeStrategyRepo) Create(ctx context.Context, s *domain.Strategy) error {
	if s.ID == "" {
		s.ID = "strat-generated"
	}
	r.strategies[s.ID] = s
	return nil
}

func (r *fakeStrategyRepo) GetByID(ctx context.Context, id string) (*domain.Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, repository.ErrStrategyNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStrategyRepo) List(ctx context.Context) ([]domain.Strategy, error) {
	out := make([]domain.Strategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStrategyRepo) Update(ctx context.Context, s *domain.Strategy) error {
	if _, ok := r.strategies[s.ID]; !ok {
		return repository.ErrStrategyNotFound
	}
	r.strategies[s.ID] = s
	return nil
}

func (r *fakeStrategyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.strategies[id]; !ok {
		return repository.ErrStrategyNotFound
	}
	delete(r.strategies, id)
	return nil
}

func TestCreateStrategyAppliesDefaults(t *testing.T) {
	svc := NewStrategyService(newFakeStrategyRepo(), newFakeWalletRepo("w-1"))

	strategy, err := svc.CreateStrategy(context.Background(), &domain.CreateStrategyRequest{
		Name:      "quarterly",
		WalletIDs: []string{"w-1"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, strategy.ID)
	assert.Equal(t, 5.0, strategy.ThresholdPercent)
	assert.Equal(t, 50.0, strategy.MinProfitThreshold)
}

func TestCreateStrategyRejectsUnknownWallet(t *testing.T) {
	svc := NewStrategyService(newFakeStrategyRepo(), newFakeWalletRepo("w-1"))

	_, err := svc.CreateStrategy(context.Background(), &domain.CreateStrategyRequest{
		Name:      "bad",
		WalletIDs: []string{"w-1", "w-missing"},
	})
	assert.ErrorIs(t, err, ErrUnknownWallet)
}

func TestUpdateStrategyPartial(t *testing.T) {
	repo := newFakeStrategyRepo()
	svc := NewStrategyService(repo, newFakeWalletRepo("w-1", "w-2"))

	created, err := svc.CreateStrategy(context.Background(), &domain.CreateStrategyRequest{
		Name:      "original",
		WalletIDs: []string{"w-1"},
	})
	require.NoError(t, err)

	newName := "renamed"
	newWallets := []string{"w-2"}
	updated, err := svc.UpdateStrategy(context.Background(), created.ID, &domain.UpdateStrategyRequest{
		Name:      &newName,
		WalletIDs: &newWallets,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, []string{"w-2"}, updated.WalletIDs)
	// Untouched fields survive.
	assert.Equal(t, 5.0, updated.ThresholdPercent)
}

func TestStrategyNotFound(t *testing.T) {
	svc := NewStrategyService(newFakeStrategyRepo(), newFakeWalletRepo())

	_, err := svc.GetStrategy(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStrategyNotFound)

	err = svc.DeleteStrategy(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStrategyNotFound)
}

func TestWalletCRUD(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := NewWalletService(repo)

	wallet, err := svc.CreateWallet(context.Background(), &domain.CreateWalletRequest{
		Address: "0xabc",
		Chain:   "ethereum",
		Label:   "main",
	})
	require.NoError(t, err)
	require.NotNil(t, wallet.Tokens, "tokens default to an empty list, not null")

	label := "cold storage"
	updated, err := svc.UpdateWallet(context.Background(), wallet.ID, &domain.UpdateWalletRequest{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "cold storage", updated.Label)
	assert.Equal(t, "0xabc", updated.Address)

	require.NoError(t, svc.DeleteWallet(context.Background(), wallet.ID))
	_, err = svc.GetWallet(context.Background(), wallet.ID)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
