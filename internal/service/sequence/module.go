package sequence

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/repository/counter"
)

// Module provides the sequence service to Fx, backed by the counter
// repository.
var Module = fx.Provide(func(repo *counter.Repository, logger *zap.Logger) *Service {
	return NewService(repo, logger)
})
