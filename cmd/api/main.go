package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/bootstrap"
	"github.com/jhoicas/retiros-api/internal/infrastructure/cache"
	"github.com/jhoicas/retiros-api/internal/infrastructure/memory"
	"github.com/jhoicas/retiros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retiros-api/internal/interfaces/http"
	"github.com/jhoicas/retiros-api/pkg/config"
	"github.com/jhoicas/retiros-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var repos bootstrap.Repositories
	switch cfg.App.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		repos = bootstrap.Postgres(pool)
	default:
		log.Warn().Msg("usando store en memoria con datos de ejemplo")
		repos = bootstrap.Memory(memory.NewSeeded())
	}

	priceCache := newPriceCache(ctx, cfg.Redis, log.Component("cache"))

	app := httpRouter.NewApp(cfg.App.Name, bootstrap.RouterDeps(repos, priceCache, cfg.Redis.PriceTTL, log.Zerolog()))

	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Retiros API",
		}))
	}

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

// newPriceCache usa Redis si REDIS_ADDR está definido y responde; si no, caché noop.
func newPriceCache(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) ports.PriceCache {
	if cfg.Addr == "" {
		return cache.NoopPriceCache{}
	}
	rc := cache.NewRedisPriceCache(cfg.Addr, cfg.Password, cfg.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible, caché deshabilitada")
		_ = rc.Close()
		return cache.NoopPriceCache{}
	}
	log.Info().Str("addr", cfg.Addr).Msg("caché de precios en redis")
	return rc
}
