package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/entity"
	"github.com/sanduba/pedidos/internal/repository/counter"
)

// memCounters mirrors the store-side atomic increment contract in memory.
type memCounters struct {
	mu   sync.Mutex
	days map[string]int
	err  error
}

func newMemCounters() *memCounters {
	return &memCounters{days: make(map[string]int)}
}

func (m *memCounters) Increment(_ context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.days[day] >= entity.MaxDailyOrders {
		return 0, counter.ErrExhausted
	}
	m.days[day]++
	return m.days[day], nil
}

func TestNextShortIDSequential(t *testing.T) {
	svc := NewService(newMemCounters(), zap.NewNop())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := svc.NextShortID(ctx, "2024-06-01")
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("%04d", i), id)
	}
}

func TestNextShortIDZeroPadding(t *testing.T) {
	svc := NewService(newMemCounters(), zap.NewNop())

	id, err := svc.NextShortID(context.Background(), "2024-06-01")
	require.NoError(t, err)
	require.Len(t, id, 4)
	require.Equal(t, "0001", id)
}

func TestNextShortIDDaysAreIndependent(t *testing.T) {
	svc := NewService(newMemCounters(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.NextShortID(ctx, "2024-06-01")
	require.NoError(t, err)
	_, err = svc.NextShortID(ctx, "2024-06-01")
	require.NoError(t, err)

	id, err := svc.NextShortID(ctx, "2024-06-02")
	require.NoError(t, err)
	require.Equal(t, "0001", id)
}

func TestNextShortIDDailyLimit(t *testing.T) {
	counters := newMemCounters()
	counters.days["2024-06-01"] = entity.MaxDailyOrders - 1
	svc := NewService(counters, zap.NewNop())
	ctx := context.Background()

	id, err := svc.NextShortID(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Equal(t, "9999", id)

	_, err = svc.NextShortID(ctx, "2024-06-01")
	require.ErrorIs(t, err, ErrDailyLimitExceeded)

	// The failed attempt must not have moved the counter.
	require.Equal(t, entity.MaxDailyOrders, counters.days["2024-06-01"])
}

func TestNextShortIDCounterFailure(t *testing.T) {
	counters := newMemCounters()
	counters.err = errors.New("connection reset")
	svc := NewService(counters, zap.NewNop())

	_, err := svc.NextShortID(context.Background(), "2024-06-01")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDailyLimitExceeded)
}

func TestNextShortIDNoDuplicatesUnderConcurrency(t *testing.T) {
	svc := NewService(newMemCounters(), zap.NewNop())
	ctx := context.Background()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.NextShortID(ctx, "2024-06-01")
			require.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate short id %s", id)
		seen[id] = struct{}{}
	}
	require.Len(t, seen, n)
}
