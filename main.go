package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"CacheFacade/internal/cache"
	"CacheFacade/internal/config"
	"CacheFacade/internal/http"
	"CacheFacade/internal/logger"
	"CacheFacade/internal/models"
	"CacheFacade/internal/ratelimit"
	"CacheFacade/internal/store"
	"CacheFacade/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	appLogger, err := initializeLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	// Create internal log event for startup
	startupCtx := logger.WithLogEvent(context.Background(), logger.NewInternalLogEvent())

	appLogger.LogInfo(startupCtx, logger.OpServerStart, "Starting Cache Facade API", map[string]interface{}{
		"version": "1.0.0",
		"config": map[string]interface{}{
			"port":              cfg.Port,
			"store_type":        cfg.StoreType,
			"key_prefix":        cfg.CacheKeyPrefix,
			"default_ttl":       cfg.CacheDefaultTTL.Seconds(),
			"log_sink":          cfg.LogSink,
			"global_rate_limit": cfg.GlobalRateLimitPerSec,
			"per_ip_rate_limit": cfg.PerIPRateLimitPerSec,
			"metrics_enabled":   cfg.MetricsEnabled,
		},
	})

	storeClient, err := initializeStore(cfg)
	if err != nil {
		appLogger.LogError(startupCtx, logger.OpStoreInit, "", "Failed to initialize store", err, models.LogSeverityHigh, map[string]interface{}{
			"store_type": cfg.StoreType,
		})
		log.Fatalf("Failed to initialize store: %v", err)
	}

	var cacheService cache.Service = cache.New(storeClient, appLogger, cfg.CacheDefaultTTL, cfg.CacheKeyPrefix)
	defer cacheService.Close()

	var (
		metrics    *telemetry.Metrics
		serverOpts []http.ServerOption
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(reg)
		cacheService = cache.WithMetrics(cacheService, metrics)
		serverOpts = append(serverOpts, http.WithMetrics(metrics, reg))
	}

	// Counters get their own facade under the reserved namespace so API clients cannot touch them
	limiterCache := cache.WithMetrics(cache.NewSystem(storeClient, appLogger, "ratelimit"), metrics)
	rateLimiter := ratelimit.NewWindowLimiter(limiterCache, appLogger, metrics, cfg.GlobalRateLimitPerSec, cfg.PerIPRateLimitPerSec)

	handler := http.NewHandler(cacheService, appLogger, cfg.StoreOperationTimeout)

	addr := ":" + cfg.Port
	server := http.NewServer(
		addr,
		handler,
		appLogger,
		rateLimiter,
		cfg.ServerReadTimeout,
		cfg.ServerWriteTimeout,
		serverOpts...,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("server failed on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		// Wait for a signal or a failed listener, then drain in-flight requests
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	fmt.Printf("Cache Facade API listening on %s (store: %s)\n", addr, cfg.StoreType)

	if err := g.Wait(); err != nil {
		appLogger.LogError(startupCtx, logger.OpServerShutdown, "", "Server stopped with error", err, models.LogSeverityHigh, nil)
		log.Printf("Server stopped with error: %v", err)
		return
	}
	appLogger.LogInfo(startupCtx, logger.OpServerShutdown, "Server shutdown completed successfully", nil)
}

func initializeLogger(cfg *config.Config) (logger.Service, error) {
	switch cfg.LogSink {
	case config.LogSinkDatabase:
		db, err := logger.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to log database: %w", err)
		}
		return logger.NewDatabaseLogger(db), nil
	case config.LogSinkConsole:
		return logger.NewConsoleLogger(cfg.LogLevel)
	default:
		return nil, fmt.Errorf("unsupported log sink: %s", cfg.LogSink)
	}
}

func initializeStore(cfg *config.Config) (store.Client, error) {
	switch cfg.StoreType {
	case store.TypeRedis:
		return store.NewRedisStore(cfg.RedisURL)
	case store.TypeOlric:
		return store.NewOlricStore(store.OlricConfig{
			Servers: cfg.OlricServers,
			DMap:    cfg.OlricDMap,
		})
	case store.TypeMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedStore, cfg.StoreType)
	}
}
