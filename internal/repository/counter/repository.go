package counter

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

var repoTracer = otel.Tracer("github.com/sanduba/pedidos/repository/counter")

// ErrExhausted is returned when a day's counter has reached its cap and no
// further sequence numbers can be issued for it.
var ErrExhausted = errors.New("daily counter exhausted")

// Repository owns the per-day order counters.
type Repository struct {
	db *bun.DB
}

// NewRepository wires a repository backed by the shared connection pool.
func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Increment bumps the counter for the given day and returns the new value.
// The first call for a day creates the row at 1. The whole operation is a
// single upsert statement, so concurrent callers serialize on the row and
// can never observe the same value; once the cap is reached the guarded
// update matches no row and the counter stays put.
func (r *Repository) Increment(ctx context.Context, day string) (int, error) {
	ctx, span := repoTracer.Start(ctx, "CounterRepository.Increment", trace.WithAttributes(attribute.String("counter.day", day)))
	defer span.End()

	var lastID int
	err := r.db.NewInsert().
		Model(&entity.DailyCounter{Day: day, LastID: 1}).
		On("CONFLICT (day) DO UPDATE").
		Set("last_id = daily_counter.last_id + 1").
		Where("daily_counter.last_id < ?", entity.MaxDailyOrders).
		Returning("last_id").
		Scan(ctx, &lastID)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "exhausted")
		return 0, ErrExhausted
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return 0, err
	}
	return lastID, nil
}
