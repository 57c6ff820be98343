package seeder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the shared connection pool.
func New(db *bun.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Orders seeds example delivery orders for local development.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{
			ID:      uuid.NewString(),
			ShortID: "0001",
			Delivery: entity.Delivery{
				Bread: "francês", Drink: "guaraná", Local: false,
				Meats: "calabresa", Salad: "completa", SideDish: "batata frita",
			},
			Address: entity.Address{
				Address: "Rua das Laranjeiras, 250", City: "São Paulo",
				Neighborhood: "Vila Mariana", PostalCode: "04101-000", State: "SP",
			},
			Payment: entity.Payment{
				FileName:   "comprovante-0001.png",
				Attachment: json.RawMessage(`{"mime":"image/png"}`),
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:      uuid.NewString(),
			ShortID: "0002",
			Delivery: entity.Delivery{
				Bread: "integral", Drink: "suco de laranja", Local: true,
				Meats: "frango", Salad: "simples", SideDish: "farofa",
			},
			Address: entity.Address{
				Address: "Av. Paulista, 1000", City: "São Paulo", Complement: "conj. 52",
				Neighborhood: "Bela Vista", PostalCode: "01310-100", State: "SP",
			},
			Payment: entity.Payment{
				FileName: "comprovante-0002.pdf",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}
