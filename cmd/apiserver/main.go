// API server entry point for PatQuery-Bridge.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/PatQuery-Bridge/internal/application/query"
	"github.com/turtacn/PatQuery-Bridge/internal/config"
	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/database/redis"
	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/PatQuery-Bridge/internal/interfaces/http"
	"github.com/turtacn/PatQuery-Bridge/internal/interfaces/http/handlers"
	"github.com/turtacn/PatQuery-Bridge/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
)

const metricsNamespace = "patquery"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: env vars and defaults)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting PatQuery-Bridge API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            metricsNamespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger.Named("metrics"))
	if err != nil {
		logger.Fatal("failed to initialize metrics collector", logging.Err(err))
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// Cache: Redis when enabled, in-process otherwise.
	var svcCache query.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger.Named("redis"))
		if err != nil {
			logger.Fatal("failed to connect to redis", logging.Err(err))
		}
		defer redisClient.Close()

		svcCache = redis.NewRedisCache(redisClient, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix+":"),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
	} else {
		logger.Info("redis disabled; using in-process response cache")
		svcCache = newMemoryCache()
	}

	// Application service.
	svc := query.NewService(svcCache, &serviceLogger{logger.Named("query")}, prometheus.NewRecorder(appMetrics))

	// Rate limiting.
	rlCfg := middleware.DefaultRateLimitConfig()
	limiter := middleware.NewTokenBucketLimiter(rlCfg.RequestsPerSecond, rlCfg.BurstSize, rlCfg.CleanupInterval)
	defer limiter.Close()

	// Health probes.
	components := map[string]handlers.Pinger{"redis": nil}
	if redisClient != nil {
		components["redis"] = redisClient
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		QueryHandler:     handlers.NewQueryHandler(svc),
		HealthHandler:    handlers.NewHealthHandler(version, components),
		Logger:           logger.Named("http"),
		MetricsCollector: collector,
		AppMetrics:       appMetrics,
		CORS:             corsConfig(),
		RateLimiter:      limiter,
		RateLimit:        rlCfg,
		Mode:             cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger.Named("server"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", logging.Err(err))
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", logging.Err(err))
	}

	logger.Info("server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// newLogger maps the service log config onto the logging package; the
// "text" format spelling is understood there directly.
func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	outputs := []string{"stdout"}
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	})
}

func corsConfig() *middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}
	return &cfg
}

//Personal.AI order the ending
