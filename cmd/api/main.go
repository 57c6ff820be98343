package main

import (
	"go.uber.org/fx"

	"github.com/sanduba/pedidos/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
