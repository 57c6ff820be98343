package http

import (
	"go.uber.org/fx"

	ordertransport "github.com/sanduba/pedidos/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
)
