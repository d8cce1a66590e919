// API server entry point for RxGene-Intelligence.  Wires the alias source,
// index provider, cache, event stream, upstream client and application
// services, then serves the HTTP API and the gRPC health endpoint until a
// termination signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/RxGene-Intelligence/internal/application/query"
	"github.com/turtacn/RxGene-Intelligence/internal/application/resolution"
	"github.com/turtacn/RxGene-Intelligence/internal/config"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/aliasstore"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/upstream"
	grpcserver "github.com/turtacn/RxGene-Intelligence/internal/interfaces/grpc"
	httpserver "github.com/turtacn/RxGene-Intelligence/internal/interfaces/http"
	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/RxGene-Intelligence/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *grpcPort > 0 {
		cfg.Server.GRPCPort = *grpcPort
	}

	logger, err := logging.NewLogger(logConfig(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting RxGene-Intelligence API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Int("grpc_port", cfg.Server.GRPCPort),
		logging.String("alias_source", cfg.Alias.Source),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	var (
		appMetrics     *metrics.AppMetrics
		metricsHandler http.Handler
	)
	if cfg.Telemetry.MetricsEnabled {
		collector, err := metrics.NewCollector(metrics.Config{
			Namespace:            cfg.Telemetry.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics collector: %w", err)
		}
		appMetrics = metrics.NewAppMetrics(collector)
		metricsHandler = collector.Handler()
	}

	// ── Alias source ──────────────────────────────────────────────────────────
	var (
		tableSource entity.TableSource
		fileSource  *aliasstore.FileSource
		pgPool      *pgxpool.Pool
	)
	switch cfg.Alias.Source {
	case "postgres":
		var err error
		pgPool, err = postgres.NewPool(ctx, postgresConfig(cfg.Database), logger)
		if err != nil {
			return fmt.Errorf("postgres pool: %w", err)
		}
		defer pgPool.Close()
		tableSource = repositories.NewAliasRepository(pgPool, logger)
	default:
		fileSource = aliasstore.NewFileSource(aliasstore.Config{
			DrugDictPath: cfg.Alias.DrugDictPath,
			GeneDictPath: cfg.Alias.GeneDictPath,
			Watch:        cfg.Alias.Watch,
		}, logger)
		tableSource = fileSource
	}

	provider := entity.NewIndexProvider(tableSource)
	provider.OnBuild(func(domain entity.Domain, stats entity.IndexStats) {
		metrics.ObserveIndexBuild(appMetrics, domain.String(), stats.BuildDuration)
		logger.Info("alias index built",
			logging.String("domain", domain.String()),
			logging.Int("keys", stats.Keys),
			logging.Int("canonicals", stats.Canonicals),
			logging.Int("collisions", stats.Collisions),
			logging.Duration("duration", stats.BuildDuration),
		)
	})

	// Dictionary hot-reload only applies to the file source.
	if fileSource != nil && cfg.Alias.Watch {
		watcher, err := aliasstore.NewWatcher(fileSource.Paths(), provider, logger)
		if err != nil {
			logger.Warn("dictionary watcher unavailable, hot reload disabled", logging.Err(err))
		} else {
			watcher.Start()
			defer watcher.Close()
		}
	}

	// ── Resolution cache (optional) ───────────────────────────────────────────
	var store cache.Cache
	redisClient, err := cache.NewClient(ctx, redisConfig(cfg.Redis), logger)
	if err != nil {
		logger.Warn("redis unavailable, resolution cache disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		store = cache.NewRedisCache(redisClient, logger,
			cache.WithPrefix(cfg.Redis.KeyPrefix),
			cache.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
	}

	// ── Event stream (optional) ───────────────────────────────────────────────
	var events resolution.EventSink
	producer, err := kafka.NewProducer(kafkaConfig(cfg.Kafka), logger)
	if err != nil {
		logger.Warn("kafka unavailable, resolution events disabled", logging.Err(err))
	} else {
		producer.OnPublish(func(topic string) {
			metrics.RecordEventPublished(appMetrics, topic)
		})
		defer producer.Close()
		events = producer
	}

	// ── Upstream interaction database ─────────────────────────────────────────
	upstreamClient, err := upstream.NewClient(upstreamConfig(cfg.Upstream), logger)
	if err != nil {
		return fmt.Errorf("upstream client: %w", err)
	}

	// ── Application services ──────────────────────────────────────────────────
	resolver := resolution.NewService(provider, store, events, appMetrics, resolution.Config{
		Threshold: cfg.Resolver.Threshold,
		CacheTTL:  cfg.Resolver.CacheTTL,
	}, logger)

	querySvc := query.NewService(resolver, upstreamClient, appMetrics, query.Config{
		DefaultBudget: cfg.Query.DefaultBudget,
		MaxBudget:     cfg.Query.MaxBudget,
	}, logger)

	// ── Index warm-up ─────────────────────────────────────────────────────────
	// Build both domain indices before accepting traffic so the first request
	// does not pay the build cost.  A failed build is not fatal: readiness
	// keeps reporting down until a later lazy build succeeds.
	warm, warmCtx := errgroup.WithContext(ctx)
	for _, domain := range entity.AllDomains {
		domain := domain
		warm.Go(func() error {
			_, err := provider.Index(warmCtx, domain)
			return err
		})
	}
	if err := warm.Wait(); err != nil {
		logger.Warn("alias index warm-up failed", logging.Err(err))
	}

	// ── HTTP layer ────────────────────────────────────────────────────────────
	checkers := []handlers.HealthChecker{
		handlers.NamedCheck{CheckName: "alias_index", Fn: resolver.Ready},
		handlers.NamedCheck{CheckName: "upstream", Fn: upstreamClient.Health},
	}
	if redisClient != nil {
		checkers = append(checkers, &redisHealthAdapter{client: redisClient})
	}
	if pgPool != nil {
		checkers = append(checkers, &postgresHealthAdapter{pool: pgPool, logger: logger})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ResolutionHandler: handlers.NewResolutionHandler(resolver),
		QueryHandler:      handlers.NewQueryHandler(querySvc),
		HealthHandler:     handlers.NewHealthHandler(version, appMetrics, checkers...),
		MetricsHandler:    metricsHandler,
		AppMetrics:        appMetrics,
		CORS:              middleware.DefaultCORSConfig(),
		Logger:            logger,
		Debug:             cfg.Server.Mode == "debug",
	})

	httpSrv := httpserver.NewServer(cfg.Server, router, logger)

	grpcSrv, err := grpcserver.NewServer(cfg.Server.GRPCPort, logger, grpcserver.Options{
		Reflection: cfg.Server.Mode == "debug",
	})
	if err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := grpcSrv.Start(); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	grpcSrv.SetServing(true)

	// ── Shutdown ──────────────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	grpcSrv.SetServing(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", logging.Err(err))
	}
	grpcSrv.Stop()

	logger.Info("servers stopped")
	return nil
}

// loadConfig reads the config file when present, otherwise falls back to
// environment variables plus defaults so a bare container still starts.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "config file %s not found, using environment and defaults\n", path)
	return config.LoadFromEnv()
}

//Personal.AI order the ending
