// Command catalogd runs the multi-tenant content catalog service: the
// producer-facing ingestion API, the tenant visibility resolver with its
// cached materialization, the admin registry endpoints, and the background
// maintenance loops (access-cache rebuild and tenant backfill).
//
// Configuration comes from environment variables (optionally a .env file);
// see internal/config for the full list and defaults.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/atlasfeed/go-catalog-backend/docs"
	"github.com/atlasfeed/go-catalog-backend/internal/config"
	httpapi "github.com/atlasfeed/go-catalog-backend/internal/http"
	"github.com/atlasfeed/go-catalog-backend/internal/observability"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
	"github.com/atlasfeed/go-catalog-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// @title        Catalog Backend API
// @version      1.0
// @description  Multi-tenant content catalog: ingestion with deduplication, ownership and sharing administration, and per-tenant visibility resolution.
// @BasePath     /api/v1
func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("database open failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("gorm tracing plugin failed")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svcs := httpapi.NewServices(db, cfg)

	// Prime the access cache so the first lookups after boot are not all
	// Hidden for the wrong reason.
	if n, err := svcs.Cache.Recompute(ctx); err != nil {
		log.Warn().Err(err).Msg("initial cache rebuild failed; serving empty snapshot")
	} else {
		log.Info().Int("resolved_pairs", n).Msg("access cache primed")
	}

	go maintenanceLoop(ctx, cfg.Maintenance, svcs)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, svcs, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("catalogd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("catalogd stopped")
}

// maintenanceLoop runs the periodic access-cache rebuild and tenant backfill
// until ctx is canceled. The same operations are exposed under
// /maintenance for operators and external schedulers; failures here are
// logged and retried on the next tick rather than crashing the process.
func maintenanceLoop(ctx context.Context, cfg config.MaintenanceConfig, svcs *httpapi.Services) {
	cacheTick := time.NewTicker(cfg.CacheRebuildInterval)
	backfillTick := time.NewTicker(cfg.BackfillInterval)
	defer cacheTick.Stop()
	defer backfillTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cacheTick.C:
			if _, err := svcs.Cache.Recompute(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("scheduled cache rebuild failed")
			}
		case <-backfillTick.C:
			if _, err := svcs.Backfill.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("scheduled backfill failed")
			}
		}
	}
}
