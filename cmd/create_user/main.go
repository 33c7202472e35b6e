// create_user da de alta un usuario directamente en la base (p. ej. el primer admin).
//
// Uso: go run ./cmd/create_user <username> <password> [admin|employee]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-taller/internal/application/auth"
	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-taller/pkg/config"
	"github.com/jhoicas/inventario-taller/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: create_user <username> <password> [admin|employee]")
		os.Exit(2)
	}
	role := entity.RoleAdmin
	if len(os.Args) > 3 {
		role = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "create_user"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	user, err := uc.CreateUser(ctx, dto.CreateUserRequest{Username: os.Args[1], Password: os.Args[2], Role: role})
	if err != nil {
		log.Fatal().Err(err).Str("username", os.Args[1]).Msg("crear usuario")
	}
	log.Info().Str("id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("usuario creado")
}
