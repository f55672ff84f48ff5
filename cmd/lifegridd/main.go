// Command lifegridd is the evolution service's HTTP/WS server: it wires
// configuration, logging, the tiered cache, the Postgres-backed board
// repository, and the streaming session handler behind a gin.Engine,
// mirroring the teacher's cmd/factoryinsight/main.go wiring and graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"github.com/lifegrid/lifegrid/internal/cache"
	"github.com/lifegrid/lifegrid/internal/config"
	"github.com/lifegrid/lifegrid/internal/httpapi"
	"github.com/lifegrid/lifegrid/internal/telemetry"
	"github.com/lifegrid/lifegrid/pkg/repository"
	"github.com/lifegrid/lifegrid/pkg/streaming"
)

var shutdownEnabled bool

func main() {
	cfg := config.Load()

	logger := telemetry.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	zap.S().Infow("starting lifegridd", "port", cfg.Port)

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	health.AddReadinessCheck("shutdownEnabled", isShutdownEnabled())
	go func() {
		if err := http.ListenAndServe("0.0.0.0:8086", health); err != nil {
			zap.S().Errorw("healthcheck server exited", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := repository.NewPostgresPool(ctx, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDatabase)
	cancel()
	if err != nil {
		zap.S().Fatalw("failed to connect to postgres", "error", err)
	}
	durable := repository.NewPostgresStore(pool)

	var shared cache.Shared
	if cfg.RedisURI != "" {
		redisClient := cache.NewRedisClient(cfg.RedisURI, cfg.RedisPassword, 0)
		shared = cache.NewRedisShared(redisClient)
	} else {
		zap.S().Warnw("REDIS_URI not set, running with in-process cache only")
	}
	tiered := cache.NewTiered(shared)

	repo, err := repository.NewBoardRepository(durable, tiered, cfg.EngineCacheSize, repository.TTLConfig{
		Current:    cfg.CacheTTLCurrent,
		Generation: cfg.CacheTTLGeneration,
		Final:      cfg.CacheTTLFinal,
	})
	if err != nil {
		zap.S().Fatalw("failed to build board repository", "error", err)
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	httpapi.Register(router, repo, websocketBaseURL(cfg.Port))
	router.GET("/ws", streaming.Handler(repo))

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("http server exited", "error", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	sig := <-sigs
	zap.S().Infow("received shutdown signal", "signal", sig.String())
	shutdownApplicationGraceful(server, pool)
}

func isShutdownEnabled() healthcheck.Check {
	return func() error {
		if shutdownEnabled {
			return http.ErrServerClosed
		}
		return nil
	}
}

// shutdownApplicationGraceful drains in-flight requests before closing the
// durable backend pool, mirroring the teacher's ShutdownApplicationGraceful.
func shutdownApplicationGraceful(server *http.Server, pool interface{ Close() }) {
	shutdownEnabled = true

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorw("error during http server shutdown", "error", err)
	}

	pool.Close()
	zap.S().Infow("shutdown complete")
}

func websocketBaseURL(port string) string {
	return "ws://localhost:" + port
}
