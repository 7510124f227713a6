// cmd/search-gateway/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobsearch-gateway/internal/api"
	"jobsearch-gateway/internal/common/config"
	"jobsearch-gateway/internal/common/database"
	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/common/observability"
	"jobsearch-gateway/internal/search/controller"
	"jobsearch-gateway/internal/search/listing"
	"jobsearch-gateway/internal/search/nlparse"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting search gateway...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Redis with retry ---
	// The cache only backs the location facet options; when Redis stays down
	// the gateway runs cacheless and every session start hits the stats
	// endpoint.
	var cache listing.Cache
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, continuing without location cache", zap.Error(err))
	} else {
		defer redis.Close()
		cache = redis
		zapLog.Info("Redis connected successfully")
	}

	// --- Upstream clients ---
	listingClient := listing.NewClient(
		&cfg.Upstream.Listing,
		cache,
		time.Duration(cfg.Database.Redis.LocationCacheTTL)*time.Minute,
		log,
	)
	parseClient := nlparse.NewClient(&cfg.Upstream.Parser, log)

	// --- Session registry + controller factory ---
	registry := api.NewRegistry(cfg.Search.SessionTTL(), log)
	registry.StartSweeper(ctx, time.Minute)

	opts := controller.Options{
		PageSize:        cfg.Search.PageSize,
		Debounce:        cfg.Search.Debounce(),
		MaxVisiblePages: cfg.Search.MaxVisiblePages,
		MergePolicy:     nlparse.MergePolicy(cfg.Search.MergePolicy),
		FacetMode:       controller.FacetMode(cfg.Search.FacetMode),
		Observer:        obs,
	}
	factory := func() *controller.Controller {
		return controller.New(listingClient, parseClient, opts, log)
	}

	apiServer := api.NewServer(registry, listingClient, factory, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apiServer.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	registry.Close()

	zapLog.Info("Search gateway stopped gracefully")
}
