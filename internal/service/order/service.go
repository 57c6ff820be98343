package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/cache"
	"github.com/sanduba/pedidos/internal/dto"
	"github.com/sanduba/pedidos/internal/entity"
	"github.com/sanduba/pedidos/internal/messaging"
	repo "github.com/sanduba/pedidos/internal/repository/order"
	"github.com/sanduba/pedidos/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/sanduba/pedidos/service/order")

const (
	listCacheKey = "orders:all"
	dayLayout    = "2006-01-02"
)

// OrderStore is the repository surface the service depends on.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	List(ctx context.Context) ([]entity.Order, error)
	Replace(ctx context.Context, order *entity.Order) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}

// ShortIDMinter issues per-day sequential short ids.
type ShortIDMinter interface {
	NextShortID(ctx context.Context, day string) (string, error)
}

// Deps bundles everything the service needs.
type Deps struct {
	Store          OrderStore
	Sequence       ShortIDMinter
	Cache          cache.Store
	CacheTTL       time.Duration
	Logger         *zap.Logger
	Publisher      messaging.Client
	PublishEnabled bool
	Now            func() time.Time
}

// Service encapsulates business logic around delivery orders.
type Service struct {
	store          OrderStore
	sequence       ShortIDMinter
	cache          cache.Store
	cacheTTL       time.Duration
	logger         *zap.Logger
	publisher      messaging.Client
	publishEnabled bool
	now            func() time.Time
}

// NewService wires a new Service instance.
func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:          d.Store,
		sequence:       d.Sequence,
		cache:          d.Cache,
		cacheTTL:       d.CacheTTL,
		logger:         d.Logger,
		publisher:      d.Publisher,
		publishEnabled: d.PublishEnabled,
		now:            now,
	}
}

// Create validates the payload, mints a short id for the current UTC day and
// persists the order under a fresh store id. The counter increment and the
// order insert are not coupled transactionally: if the insert fails the
// minted short id stays burned for the day.
func (s *Service) Create(ctx context.Context, payload dto.OrderPayload) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create")
	defer span.End()

	now := s.now().UTC()
	order := &entity.Order{
		Delivery:  payload.Delivery,
		Address:   payload.Address,
		Payment:   payload.Payment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := order.Validate(); err != nil {
		var missing *entity.MissingFieldError
		if errors.As(err, &missing) {
			return nil, errorbank.BadRequest(
				fmt.Sprintf("Campo obrigatório ausente: %s", missing.Field),
				errorbank.WithDetail("field", missing.Field),
			)
		}
		return nil, errorbank.BadRequest("Pedido inválido", errorbank.WithCause(err))
	}

	day := now.Format(dayLayout)
	shortID, err := s.sequence.NextShortID(ctx, day)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "short id mint failed")
		return nil, err
	}

	order.ID = uuid.NewString()
	order.ShortID = shortID
	span.SetAttributes(attribute.String("order.short_id", shortID))

	if err := s.store.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, err
	}

	s.dropListCache(ctx)
	s.publishOrderCreated(ctx, order, day)
	return order, nil
}

// List returns every stored order, consulting the cache first.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	if orders, err := s.listFromCache(ctx); err == nil {
		return orders, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.Error(err))
		}
	}

	orders, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, err
	}

	if err := s.storeListInCache(ctx, orders); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Error(err))
		}
	}

	return orders, nil
}

// Replace swaps the delivery, address and payment sub-documents of an
// existing order wholesale; short id and store id never change.
func (s *Service) Replace(ctx context.Context, id string, payload dto.OrderPayload) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Replace", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		// A malformed id can never address a row.
		return nil, repo.ErrNotFound
	}

	order := &entity.Order{
		ID:        id,
		Delivery:  payload.Delivery,
		Address:   payload.Address,
		Payment:   payload.Payment,
		UpdatedAt: s.now().UTC(),
	}

	updated, err := s.store.Replace(ctx, order)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
		}
		return nil, err
	}

	s.dropListCache(ctx)
	return updated, nil
}

// Delete removes an order by store id and returns the id on success.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return "", repo.ErrNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
		}
		return "", err
	}

	s.dropListCache(ctx)
	return id, nil
}

func (s *Service) publishOrderCreated(ctx context.Context, order *entity.Order, day string) {
	if !s.publishEnabled || s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		ID:        order.ID,
		ShortID:   order.ShortID,
		Day:       day,
		CreatedAt: order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order created", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte("order-"+order.ID), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order created", zap.Error(err))
		}
	}
}

func (s *Service) listFromCache(ctx context.Context) ([]entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, listCacheKey)
	if err != nil {
		return nil, err
	}
	var orders []entity.Order
	if err := json.Unmarshal(bytes, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) storeListInCache(ctx context.Context, orders []entity.Order) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL)
}

func (s *Service) dropListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache invalidation failed", zap.Error(err))
		}
	}
}

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Day       string    `json:"day"`
	CreatedAt time.Time `json:"createdAt"`
}
