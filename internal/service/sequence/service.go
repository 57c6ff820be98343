package sequence

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/entity"
	"github.com/sanduba/pedidos/internal/repository/counter"
)

var serviceTracer = otel.Tracer("github.com/sanduba/pedidos/service/sequence")

// ErrDailyLimitExceeded signals that the day already issued its maximum
// number of short ids; nothing was mutated.
var ErrDailyLimitExceeded = errors.New("daily order limit exceeded")

// Counters is the slice of the counter repository the service depends on.
type Counters interface {
	Increment(ctx context.Context, day string) (int, error)
}

// Service mints per-day sequential short ids for new orders.
type Service struct {
	counters Counters
	logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(counters Counters, logger *zap.Logger) *Service {
	return &Service{counters: counters, logger: logger}
}

// NextShortID issues the next short id for the given day (YYYY-MM-DD),
// zero-padded to 4 digits. Ids for a day run 0001..9999; the increment is
// persisted before the id is handed out, so an id once issued is never
// issued again even if its order fails to persist.
func (s *Service) NextShortID(ctx context.Context, day string) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "SequenceService.NextShortID", trace.WithAttributes(attribute.String("counter.day", day)))
	defer span.End()

	seq, err := s.counters.Increment(ctx, day)
	if err != nil {
		if errors.Is(err, counter.ErrExhausted) {
			span.SetStatus(codes.Error, "daily limit")
			return "", ErrDailyLimitExceeded
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "counter error")
		return "", err
	}

	if seq > entity.MaxDailyOrders {
		// The store-side guard should make this unreachable.
		s.logger.Error("counter issued value above cap", zap.String("day", day), zap.Int("seq", seq))
		return "", ErrDailyLimitExceeded
	}

	return fmt.Sprintf("%04d", seq), nil
}
