package order

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sanduba/pedidos/internal/cache"
	"github.com/sanduba/pedidos/internal/config"
	"github.com/sanduba/pedidos/internal/messaging"
	repo "github.com/sanduba/pedidos/internal/repository/order"
	"github.com/sanduba/pedidos/internal/service/sequence"
)

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Sequence   *sequence.Service
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// Module provides the order service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(Deps{
		Store:          p.Repository,
		Sequence:       p.Sequence,
		Cache:          p.Cache,
		CacheTTL:       p.Config.Cache.DefaultTTL,
		Logger:         p.Logger,
		Publisher:      p.Publisher,
		PublishEnabled: p.Config.Messaging.Enabled,
	})
})
