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
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-scheduler/internal/db"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/handlers"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/barbershop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/routes"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/seed"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
)

func runServer(cfg *config.Config, log zerolog.Logger, store string) error {
	ctx := context.Background()

	deps := routes.Deps{
		Config: cfg,
		Logger: log,
		Lanes:  tenant.NewLanes(tenant.DefaultIdleTimeout),
		Health: map[string]handlers.Checker{},
	}

	// ======================================================
	// PERSISTÊNCIA
	// ======================================================
	switch store {
	case storeMemory:
		mem := memory.New()
		if _, err := seed.Demo(ctx, mem, mem, mem, log); err != nil {
			return err
		}
		deps.Appointments = mem
		deps.Catalog = mem
		deps.Settings = mem
		deps.AuditStore = mem
		log.Warn().Msg("using in-memory store: data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to database")
			return err
		}
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}
		deps.Appointments = infraRepo.NewAppointmentGormRepository(db)
		deps.Catalog = infraRepo.NewCatalogGormRepository(db)
		deps.Settings = infraRepo.NewSettingsGormRepository(db)
		deps.AuditStore = infraRepo.NewAuditGormRepository(db)
		deps.Health["database"] = func(ctx context.Context) error { return dbpkg.Ping(ctx, db) }
		log.Info().Msg("connected to database")
	}

	// ======================================================
	// REDIS (opcional): cache de settings + fan-out de eventos
	// ======================================================
	sinks := []notify.Sink{notify.NewLogSink(log)}
	deps.SettingsCache = cache.NewLocalSettings(cfg.SettingsCacheTTL)

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		rc := cache.NewRedisCache(rdb)
		deps.SettingsCache = cache.NewRedisSettings(rc, cfg.SettingsCacheTTL, log)
		deps.Health["redis"] = rc.Ping
		sinks = append(sinks, notify.NewRedisSink(rdb))
		log.Info().Msg("redis enabled")
	}

	notifier := notify.NewDispatcher(log, sinks...)
	defer notifier.Close()
	deps.Notifier = notifier

	auditDispatcher := audit.NewDispatcher(audit.New(deps.AuditStore), log)
	defer auditDispatcher.Close()
	deps.Audit = auditDispatcher

	// ======================================================
	// OBJECT STORAGE
	// ======================================================
	if cfg.S3Bucket != "" {
		deps.Objects = storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	} else {
		deps.Objects = storage.NewMemoryStore()
		log.Warn().Msg("S3_BUCKET not set: exports are kept in memory")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", store).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
