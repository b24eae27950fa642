package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docregistry/internal/config"
	"github.com/gogotex/docregistry/internal/database"
	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/repository"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/gogotex/docregistry/internal/server"
	"github.com/gogotex/docregistry/pkg/logger"
	"github.com/gogotex/docregistry/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetFormat(os.Getenv("LOG_FORMAT"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is shared by the redis backend and the redis rate limiter
	var rdb *redis.Client
	if cfg.Redis.Host != "" && (cfg.Storage.Backend == "redis" || (cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis)) {
		rdb, err = database.ConnectRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		logger.Infof("Connected to Redis: %s", cfg.Redis.Addr())
	}

	repo, cleanup, err := repository.New(ctx, cfg, rdb)
	if err != nil {
		logger.Fatalf("failed to initialize storage: %v", err)
	}
	defer cleanup()

	ids, err := document.NewIDGenerator(cfg.Storage.IDScheme)
	if err != nil {
		logger.Fatalf("invalid id scheme: %v", err)
	}
	svc := service.New(repo, service.Options{
		RequireDescription: cfg.Documents.RequireDescription,
		IDs:                ids,
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.NewRouter(cfg, svc, rdb, prometheus.DefaultGatherer)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Infof("Config summary: env=%s backend=%s id_scheme=%s require_description=%v rate_limit=%v",
		cfg.Server.Environment, cfg.Storage.Backend, cfg.Storage.IDScheme, cfg.Documents.RequireDescription, cfg.RateLimit.Enabled)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting document registry on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown failed: %v", err)
		return
	}
	logger.Info("server stopped")
}
