// migrate aplica o revierte las migraciones embebidas.
//
// Uso: go run ./cmd/migrate [up|down]
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/inventario-taller/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-taller/pkg/config"
	"github.com/jhoicas/inventario-taller/pkg/logger"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "migrate"})
	dsn := cfg.DB.ConnectionString()

	switch direction {
	case "up":
		err = postgres.MigrateUp(dsn, log.Zerolog())
	case "down":
		err = postgres.MigrateDown(dsn, log.Zerolog())
	default:
		fmt.Fprintf(os.Stderr, "Dirección desconocida %q (use up o down)\n", direction)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("migraciones")
	}
}
