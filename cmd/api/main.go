package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/art-studio-api/api/swagger"
	"github.com/noah-isme/art-studio-api/internal/handler"
	"github.com/noah-isme/art-studio-api/internal/repository"
	"github.com/noah-isme/art-studio-api/internal/service"
	"github.com/noah-isme/art-studio-api/pkg/cache"
	"github.com/noah-isme/art-studio-api/pkg/config"
	"github.com/noah-isme/art-studio-api/pkg/database"
	"github.com/noah-isme/art-studio-api/pkg/export"
	"github.com/noah-isme/art-studio-api/pkg/logger"
)

// @title Art Studio Admin API
// @version 1.0.0
// @description Group schedule management for the studio admin dashboard
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	var groupCache *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, group cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			groupCache = service.NewCacheService(repository.NewCacheRepository(client), metricsSvc, cfg.Cache.GroupTTL, logr, true)
		}
	}

	validate := service.NewValidator()
	authSvc := service.NewAuthService(repository.NewUserRepository(db), validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	groupSvc := service.NewGroupService(repository.NewGroupRepository(db), groupCache, metricsSvc, validate, logr, service.GroupServiceConfig{
		AdminOnlyWrites: cfg.Groups.AdminOnlyWrites,
		CacheTTL:        cfg.Cache.GroupTTL,
	})
	exportSvc := service.NewExportService(groupSvc, export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.PDFFontPath), logr)

	router := handler.NewRouter(handler.RouterDeps{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Groups:  groupSvc,
		Export:  exportSvc,
		Metrics: metricsSvc,
		DB:      db,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
