package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanduba/pedidos/internal/entity"
)

var repoTracer = otel.Tracer("github.com/sanduba/pedidos/repository/order")

// ErrNotFound is returned when no order matches the given store id.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates read/write access for orders.
type Repository struct {
	db *bun.DB
}

// NewRepository wires a repository backed by the shared connection pool.
func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.short_id", order.ShortID)))
	defer span.End()

	_, err := r.db.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// List returns every stored order, oldest first. No filtering, no pages.
func (r *Repository) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []entity.Order
	err := r.db.NewSelect().Model(&orders).Order("created_at ASC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Replace swaps the three mutable sub-documents of an existing order in
// full. The short id and creation timestamp are left untouched; the row as
// persisted is returned.
func (r *Repository) Replace(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if order == nil {
		return nil, errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Replace", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	err := r.db.NewUpdate().
		Model(order).
		Column("delivery", "address", "payment", "updated_at").
		WherePK().
		Returning("*").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	return order, nil
}

// Delete removes an order by store id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	res, err := r.db.NewDelete().
		Model((*entity.Order)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
