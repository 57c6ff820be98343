package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/cache"
	"github.com/sanduba/pedidos/internal/dto"
	"github.com/sanduba/pedidos/internal/entity"
	"github.com/sanduba/pedidos/internal/messaging"
	repoorder "github.com/sanduba/pedidos/internal/repository/order"
	"github.com/sanduba/pedidos/internal/service/sequence"
	"github.com/sanduba/pedidos/pkg/errorbank"
)

// memStore keeps orders in memory behind the OrderStore contract.
type memStore struct {
	mu     sync.Mutex
	orders []entity.Order
	fail   error
}

func (m *memStore) Create(_ context.Context, order *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memStore) List(context.Context) ([]entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]entity.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *memStore) Replace(_ context.Context, order *entity.Order) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for i := range m.orders {
		if m.orders[i].ID == order.ID {
			m.orders[i].Delivery = order.Delivery
			m.orders[i].Address = order.Address
			m.orders[i].Payment = order.Payment
			m.orders[i].UpdatedAt = order.UpdatedAt
			stored := m.orders[i]
			return &stored, nil
		}
	}
	return nil, repoorder.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return repoorder.ErrNotFound
}

// memMinter issues sequential ids per day under a mutex, matching the
// atomic store contract.
type memMinter struct {
	mu   sync.Mutex
	days map[string]int
	err  error
}

func newMemMinter() *memMinter { return &memMinter{days: make(map[string]int)} }

func (m *memMinter) NextShortID(_ context.Context, day string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.days[day] >= entity.MaxDailyOrders {
		return "", sequence.ErrDailyLimitExceeded
	}
	m.days[day]++
	return fmt.Sprintf("%04d", m.days[day]), nil
}

type capturePublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, _ []byte, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
	return nil
}

func (p *capturePublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (p *capturePublisher) Topic() string { return "pedidos.events" }

func validPayload() dto.OrderPayload {
	return dto.OrderPayload{
		Delivery: entity.Delivery{
			Bread: "francês", Drink: "suco", Meats: "frango", Salad: "simples", SideDish: "farofa",
		},
		Address: entity.Address{
			Address: "Av. Brasil, 42", City: "Rio de Janeiro", Neighborhood: "Tijuca",
			PostalCode: "20000-000", State: "RJ",
		},
		Payment: entity.Payment{FileName: "comprovante.pdf"},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(store *memStore, minter *memMinter) *Service {
	return NewService(Deps{
		Store:    store,
		Sequence: minter,
		Cache:    cache.NewMemoryStore(16, time.Minute),
		CacheTTL: time.Minute,
		Logger:   zap.NewNop(),
		Now:      fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	})
}

func TestCreateAssignsSequentialShortIDs(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	first, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)
	require.Equal(t, "0001", first.ShortID)

	second, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)
	require.Equal(t, "0002", second.ShortID)

	require.NotEqual(t, first.ID, second.ID)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	store := &memStore{}
	minter := newMemMinter()
	svc := newTestService(store, minter)

	payload := validPayload()
	payload.Address.City = ""

	_, err := svc.Create(context.Background(), payload)
	require.Error(t, err)

	appErr := errorbank.From(err)
	require.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	require.Contains(t, appErr.Message(), "address.city")

	// Validation failures must not burn a short id or touch the store.
	require.Empty(t, minter.days)
	require.Empty(t, store.orders)
}

func TestCreateDailyLimit(t *testing.T) {
	store := &memStore{}
	minter := newMemMinter()
	minter.days["2024-06-01"] = entity.MaxDailyOrders
	svc := newTestService(store, minter)

	_, err := svc.Create(context.Background(), validPayload())
	require.ErrorIs(t, err, sequence.ErrDailyLimitExceeded)
	require.Empty(t, store.orders)
}

func TestCreateBurnsShortIDOnStoreFailure(t *testing.T) {
	store := &memStore{fail: errors.New("store down")}
	minter := newMemMinter()
	svc := newTestService(store, minter)

	_, err := svc.Create(context.Background(), validPayload())
	require.Error(t, err)

	// The increment is not rolled back; the next creation skips 0001.
	store.fail = nil
	order, err := svc.Create(context.Background(), validPayload())
	require.NoError(t, err)
	require.Equal(t, "0002", order.ShortID)
}

func TestCreatePublishesEvent(t *testing.T) {
	store := &memStore{}
	pub := &capturePublisher{}
	svc := NewService(Deps{
		Store:          store,
		Sequence:       newMemMinter(),
		Logger:         zap.NewNop(),
		Publisher:      pub,
		PublishEnabled: true,
		Now:            fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	_, err := svc.Create(context.Background(), validPayload())
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	require.Contains(t, string(pub.messages[0]), `"shortId":"0001"`)
	require.Contains(t, string(pub.messages[0]), `"day":"2024-06-01"`)
}

func TestListCountsCreations(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, validPayload())
		require.NoError(t, err)
	}

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
}

func TestListServedFromCacheAfterFirstHit(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	_, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// With the store failing, the cached list still answers.
	store.fail = errors.New("store down")
	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
}

func TestReplaceKeepsShortIDAndStoreID(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	created, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)

	replacement := validPayload()
	replacement.Delivery.Drink = "refrigerante"
	replacement.Address.Complement = "apto 12"

	updated, err := svc.Replace(ctx, created.ID, replacement)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.ShortID, updated.ShortID)
	require.Equal(t, "refrigerante", updated.Delivery.Drink)
	require.Equal(t, "apto 12", updated.Address.Complement)
}

func TestReplaceUnknownID(t *testing.T) {
	svc := newTestService(&memStore{}, newMemMinter())

	_, err := svc.Replace(context.Background(), uuid.NewString(), validPayload())
	require.ErrorIs(t, err, repoorder.ErrNotFound)
}

func TestReplaceMalformedID(t *testing.T) {
	svc := newTestService(&memStore{}, newMemMinter())

	_, err := svc.Replace(context.Background(), "not-a-uuid", validPayload())
	require.ErrorIs(t, err, repoorder.ErrNotFound)
}

func TestDeleteRemovesOrder(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	created, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)

	id, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, id)

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestDeleteUnknownID(t *testing.T) {
	svc := newTestService(&memStore{}, newMemMinter())

	_, err := svc.Delete(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, repoorder.ErrNotFound)
}

func TestConcurrentCreatesNeverShareShortID(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, newMemMinter())
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, validPayload())
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, n)

	seen := make(map[string]struct{}, n)
	for _, o := range orders {
		_, dup := seen[o.ShortID]
		require.False(t, dup, "duplicate short id %s", o.ShortID)
		seen[o.ShortID] = struct{}{}
	}
}
