package app

import (
	"go.uber.org/fx"

	"github.com/sanduba/pedidos/internal/cache"
	"github.com/sanduba/pedidos/internal/config"
	"github.com/sanduba/pedidos/internal/database"
	"github.com/sanduba/pedidos/internal/logger"
	"github.com/sanduba/pedidos/internal/messaging"
	"github.com/sanduba/pedidos/internal/observability"
	repositorycounter "github.com/sanduba/pedidos/internal/repository/counter"
	repositoryorder "github.com/sanduba/pedidos/internal/repository/order"
	httpserver "github.com/sanduba/pedidos/internal/server/http"
	serviceorder "github.com/sanduba/pedidos/internal/service/order"
	servicesequence "github.com/sanduba/pedidos/internal/service/sequence"
	transporthttp "github.com/sanduba/pedidos/internal/transport/http"
	"github.com/sanduba/pedidos/internal/worker"
	workerorder "github.com/sanduba/pedidos/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositorycounter.Module,
	repositoryorder.Module,
	servicesequence.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
