package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/domain"
)

type recordingStore struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	exists bool
	saves  int
}

func (s *recordingStore) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, cart.ErrCartNotFound
	}
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *recordingStore) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append([]domain.CartLine(nil), lines...)
	s.exists = true
	s.saves++
	return nil
}

func (s *recordingStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.exists = false
	return nil
}

func newLoadedAggregate(t *testing.T, store cart.Store) *cart.Aggregate {
	t.Helper()
	agg, err := cart.NewAggregate(store, "sess-1")
	require.NoError(t, err)
	require.NoError(t, agg.Load(context.Background()))
	return agg
}

func ring(id string, price float64) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      "Gold Ring " + id,
		Price:     price,
		Images:    []string{"https://cdn.example/" + id + ".jpg"},
		Category:  "rings",
	}
}

func TestAggregateAddMergesByProductID(t *testing.T) {
	t.Parallel()

	agg := newLoadedAggregate(t, &recordingStore{})
	ctx := context.Background()

	require.NoError(t, agg.Add(ctx, ring("r1", 1500), 1))
	require.NoError(t, agg.Add(ctx, ring("r2", 900), 2))
	require.NoError(t, agg.Add(ctx, ring("r1", 1500), 3))

	lines := agg.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "r1", lines[0].ProductID)
	require.Equal(t, 4, lines[0].Quantity)
	require.Equal(t, 2, lines[1].Quantity)
}

func TestAggregateAddClampsQuantityToOne(t *testing.T) {
	t.Parallel()

	agg := newLoadedAggregate(t, &recordingStore{})
	require.NoError(t, agg.Add(context.Background(), ring("r1", 100), -5))
	require.Equal(t, 1, agg.Lines()[0].Quantity)
}

func TestAggregateAddRejectsInvalidProduct(t *testing.T) {
	t.Parallel()

	agg := newLoadedAggregate(t, &recordingStore{})
	ctx := context.Background()

	err := agg.Add(ctx, domain.Product{ProductID: "  "}, 1)
	require.ErrorIs(t, err, cart.ErrInvalidProduct)

	err = agg.Add(ctx, domain.Product{ProductID: "r1", Price: -1}, 1)
	require.ErrorIs(t, err, cart.ErrInvalidProduct)
	require.True(t, agg.Empty())
}

func TestAggregateSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	agg := newLoadedAggregate(t, &recordingStore{})
	ctx := context.Background()

	require.NoError(t, agg.Add(ctx, ring("r1", 100), 2))
	require.NoError(t, agg.SetQuantity(ctx, "r1", 0))
	require.True(t, agg.Empty())

	// Removing an absent line stays a no-op.
	require.NoError(t, agg.Remove(ctx, "r1"))
	require.True(t, agg.Empty())
}

func TestAggregateTotalIsDerived(t *testing.T) {
	t.Parallel()

	agg := newLoadedAggregate(t, &recordingStore{})
	ctx := context.Background()

	require.NoError(t, agg.Add(ctx, ring("r1", 1500), 2))
	require.NoError(t, agg.Add(ctx, ring("r2", 250.5), 1))
	require.InDelta(t, 3250.5, agg.Total(), 1e-9)

	require.NoError(t, agg.SetQuantity(ctx, "r1", 1))
	require.InDelta(t, 1750.5, agg.Total(), 1e-9)
}

func TestAggregateSuppressesSavesBeforeLoad(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	agg, err := cart.NewAggregate(store, "sess-1")
	require.NoError(t, err)
	ctx := context.Background()

	// Mutations before Load must never reach the store, otherwise an empty
	// aggregate could clobber previously persisted lines.
	require.NoError(t, agg.Add(ctx, ring("r1", 100), 1))
	require.Equal(t, 0, store.saves)

	require.NoError(t, agg.Load(ctx))
	require.NoError(t, agg.Add(ctx, ring("r2", 200), 1))
	require.Equal(t, 1, store.saves)
}

func TestAggregateLoadHydratesPersistedLines(t *testing.T) {
	t.Parallel()

	store := &recordingStore{
		exists: true,
		lines:  []domain.CartLine{{ProductID: "r9", Name: "Kundan Necklace", Price: 4200, Quantity: 1}},
	}
	agg, err := cart.NewAggregate(store, "sess-1")
	require.NoError(t, err)
	require.NoError(t, agg.Load(context.Background()))

	lines := agg.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "r9", lines[0].ProductID)

	// Load is idempotent.
	require.NoError(t, agg.Load(context.Background()))
	require.Len(t, agg.Lines(), 1)
}

func TestAggregateClearPersistsEmptyCart(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	agg := newLoadedAggregate(t, store)
	ctx := context.Background()

	require.NoError(t, agg.Add(ctx, ring("r1", 100), 1))
	require.NoError(t, agg.Clear(ctx))
	require.True(t, agg.Empty())
	require.Empty(t, store.lines)
}

func TestNewAggregateValidation(t *testing.T) {
	t.Parallel()

	_, err := cart.NewAggregate(nil, "sess-1")
	require.Error(t, err)

	_, err = cart.NewAggregate(&recordingStore{}, "  ")
	require.Error(t, err)
}

func TestAggregateLoadPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	agg, err := cart.NewAggregate(failingStore{}, "sess-1")
	require.NoError(t, err)
	require.Error(t, agg.Load(context.Background()))
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]domain.CartLine, error) {
	return nil, errors.New("redis get failed")
}

func (failingStore) Save(context.Context, string, []domain.CartLine) error {
	return errors.New("redis set failed")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("redis del failed")
}
