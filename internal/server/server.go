package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docregistry/handlers"
	"github.com/gogotex/docregistry/internal/config"
	"github.com/gogotex/docregistry/internal/document/handler"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/gogotex/docregistry/pkg/logger"
	"github.com/gogotex/docregistry/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

const readyTimeout = 2 * time.Second

// NewRouter builds the HTTP engine: CORS, logging, recovery, optional rate
// limiting, health/readiness, metrics, swagger and the document API.
// rdb may be nil; it is only used by the Redis rate limiter.
func NewRouter(cfg *config.Config, svc service.Service, rdb *redis.Client, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter enabled (redis, rps=%v burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter enabled (memory, rps=%v burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the storage backend answers
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		deps := map[string]bool{"storage": true}
		if err := svc.Ping(ctx); err != nil {
			logger.Warnf("readiness: storage ping failed: %v", err)
			deps["storage"] = false
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "backend": cfg.Storage.Backend, "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": cfg.Storage.Backend, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)
	handler.RegisterDocumentRoutes(r, svc)
	return r
}
