package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/lifeng-edu/exam-duty-api/api/swagger"
	"github.com/lifeng-edu/exam-duty-api/internal/handler"
	"github.com/lifeng-edu/exam-duty-api/internal/repository"
	"github.com/lifeng-edu/exam-duty-api/internal/service"
	"github.com/lifeng-edu/exam-duty-api/pkg/cache"
	"github.com/lifeng-edu/exam-duty-api/pkg/config"
	"github.com/lifeng-edu/exam-duty-api/pkg/database"
	"github.com/lifeng-edu/exam-duty-api/pkg/export"
	"github.com/lifeng-edu/exam-duty-api/pkg/logger"
	"github.com/lifeng-edu/exam-duty-api/pkg/storage"
)

// @title Exam Duty API
// @version 1.0.0
// @description Exam invigilation scheduling: rosters, allocation runs, duty tables, statistics and exports.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, statistics caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	roomRepo := repository.NewRoomRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Statistics.CacheTTL, logr, redisClient != nil)
	rosterSvc := service.NewRosterService(roomRepo, staffRepo, slotRepo, sessionRepo, db, validate, logr)
	allocationSvc := service.NewAllocationService(
		roomRepo, staffRepo, slotRepo, sessionRepo, allocationRepo,
		db, cacheSvc, metricsSvc, validate, logr,
		service.AllocationConfig{DailyQuota: cfg.Allocator.DailyQuota},
	)
	statisticsSvc := service.NewStatisticsService(allocationRepo, cacheSvc, logr, service.StatisticsConfig{
		CacheTTL: cfg.Statistics.CacheTTL,
	})
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		JWTSecret:          cfg.Auth.JWTSecret,
		AccessTokenExpiry:  cfg.Auth.Expiration,
		RefreshTokenExpiry: cfg.Auth.RefreshExpiration,
		AdminEmail:         cfg.Auth.AdminEmail,
		AdminPasswordHash:  cfg.Auth.AdminPasswordHash,
	})
	exportSvc := service.NewExportService(allocationSvc, metricsSvc, logr, export.NewCSVExporter(), export.NewPDFExporter())

	var exportJobSvc *service.ExportJobService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			sugar.Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobSvc = service.NewExportJobService(exportSvc, store, signer, validate, logr, service.ExportJobsConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			Workers:         cfg.Exports.WorkerConcurrency,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
	}

	handlers := apiHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		rosters:     handler.NewRosterHandler(rosterSvc),
		allocations: handler.NewAllocationHandler(allocationSvc, exportSvc),
		statistics:  handler.NewStatisticsHandler(statisticsSvc),
	}
	if exportJobSvc != nil {
		handlers.exports = handler.NewExportHandler(exportJobSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ready := func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}

	r := newRouter(cfg, logr, metricsSvc, authSvc, handlers, ready)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if exportJobSvc != nil {
		exportJobSvc.Start(ctx)
		defer exportJobSvc.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
