package main

import (
	"os"

	"github.com/sanduba/pedidos/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
