// devserver levanta localmente la API REST de control de estoque sobre SQLite,
// para desarrollar y probar stockctl sin el backend real.
//
// Uso: go run ./cmd/devserver
// Variables: DEV_HTTP_HOST, DEV_HTTP_PORT, DEV_DB_DSN, JWT_SECRET (obligatoria).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/stockctl/internal/application/inventory"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/stockctl/internal/interfaces/http"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/config"
	"github.com/jhoicas/stockctl/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if cfg.JWT.Secret == "" {
		log.Error().Msg("JWT_SECRET es obligatorio")
		os.Exit(1)
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("dsn", cfg.Dev.DSN).
		Msg("iniciando servidor de desarrollo")

	db, err := sqlite.Open(cfg.Dev.DSN)
	if err != nil {
		log.Error().Err(err).Msg("abrir SQLite")
		os.Exit(1)
	}
	defer func() { _ = sqlite.Close(db) }()

	clk := clock.RealClock{}
	productRepo := sqlite.NewProductRepository(db)
	movementRepo := sqlite.NewMovementRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	alertRepo := sqlite.NewAlertRepository(db)

	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		UserUC:      usecase.NewUserUseCase(userRepo, cfg.JWT, clk),
		ProductUC:   usecase.NewProductUseCase(productRepo, alertRepo, clk),
		MovementUC:  inventory.NewMovementUseCase(sqlite.NewTxRunner(db), productRepo, movementRepo, clk),
		AnalyticsUC: usecase.NewAnalyticsUseCase(sqlite.NewAnalyticsRepository(db), productRepo, alertRepo, clk),
		ExportUC:    usecase.NewExportUseCase(productRepo, movementRepo, userRepo, alertRepo, clk),
		Clock:       clk,
		PageSize:    usecase.DefaultPageSize,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.Dev.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.Dev.Addr()).Msg("API disponible en /api/")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}
