package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/cache"
	"github.com/ByLCY/sheetpress/config"
	"github.com/ByLCY/sheetpress/logger"
	canvasrenderer "github.com/ByLCY/sheetpress/renderer/canvas"
	"github.com/ByLCY/sheetpress/server"
	"github.com/ByLCY/sheetpress/store"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting sheetpress preview service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Layout engine ─────────────────────────────────────────────────
	engine := canvasrenderer.NewRenderer(canvasrenderer.Options{
		PageWidthMM: cfg.Params().PageWidthMM,
		GapMM:       cfg.GapMM,
	})
	if !engine.Mounted() {
		log.Fatal().Msg("Layout fonts could not be loaded")
	}
	params := cfg.Params()
	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid page parameters")
	}

	deps := server.Deps{
		Surface:  engine,
		Renderer: engine,
		Params:   params,
		Log:      log,
	}

	// ─── PostgreSQL (optional) ─────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		repo := store.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		deps.Types = repo
	} else {
		log.Warn().Msg("DATABASE_URL not set, worksheet type storage disabled")
	}

	// ─── Redis (optional) ──────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		deps.Cache = cache.New(rdb, cfg.PreviewCacheTTL, log)
	} else {
		log.Info().Msg("REDIS_URL not set, layout cache disabled")
	}

	r := server.SetupRouter(server.NewHandler(deps), cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
