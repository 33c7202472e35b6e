package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/inventario-taller/internal/application/analytics"
	"github.com/jhoicas/inventario-taller/internal/application/auth"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-taller/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-taller/internal/interfaces/http"
	"github.com/jhoicas/inventario-taller/pkg/config"
	"github.com/jhoicas/inventario-taller/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		userRepo repository.UserRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner = store
		userRepo = store.Users()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.Store.MigrateOnStart {
			if err := postgres.MigrateUp(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	now := inventory.Clock(time.Now)
	itemUC := usecase.NewItemUseCase(txRunner, now, log.Component("items"))
	purchaseOrderUC := inventory.NewPurchaseOrderUseCase(txRunner, now, log.Component("purchase_orders"))
	requirementUC := inventory.NewRequirementUseCase(txRunner, now, log.Component("requirements"))
	shortageUC := inventory.NewShortageUseCase(txRunner)
	dashboardUC := appanalytics.NewDashboardUseCase(txRunner)
	pdfUC := inventory.NewPDFUseCase(txRunner, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ItemUC:          itemUC,
		PurchaseOrderUC: purchaseOrderUC,
		RequirementUC:   requirementUC,
		ShortageUC:      shortageUC,
		PDFUC:           pdfUC,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
