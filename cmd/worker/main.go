// Curation worker entry point for RxGene-Intelligence.  Consumes
// unresolved-name events from Kafka and persists them in PostgreSQL so
// dictionary maintainers can review names that fell below the similarity
// threshold.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/RxGene-Intelligence/internal/config"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
)

const (
	defaultConfigPath    = "configs/config.yaml"
	defaultMigrationPath = "file://migrations"
	defaultHealthPort    = 8081
	shutdownGrace        = 15 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	healthPort := flag.Int("health-port", defaultHealthPort, "health probe port")
	skipMigrate := flag.Bool("skip-migrate", false, "skip running schema migrations at startup")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting RxGene-Intelligence curation worker",
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.String("topic", cfg.Kafka.UnresolvedTopic),
	)

	if err := run(cfg, logger, *healthPort, !*skipMigrate); err != nil {
		logger.Fatal("worker exited with error", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger, healthPort int, migrate bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Storage ───────────────────────────────────────────────────────────────
	pool, err := postgres.NewPool(ctx, postgresConfig(cfg.Database), logger)
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	defer pool.Close()

	if migrate {
		migrationPath := cfg.Database.MigrationPath
		if migrationPath == "" {
			migrationPath = defaultMigrationPath
		}
		if err := postgres.RunMigrations(postgres.ConnString(postgresConfig(cfg.Database)), migrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		logger.Info("schema migrations applied", logging.String("path", migrationPath))
	}

	repo := repositories.NewUnmappedNameRepository(pool, logger)

	// ── Consumers ─────────────────────────────────────────────────────────────
	// Each consumer is its own group member; Kafka balances partitions across
	// them, so concurrency scales with partition count.
	handler := recordHandler(repo, logger)

	consumers := make([]*kafka.Consumer, 0, cfg.Worker.Concurrency)
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		consumer, err := kafka.NewConsumer(kafkaConfig(cfg.Kafka), handler, logger,
			kafka.WithHandlerRetries(cfg.Worker.MaxRetries, cfg.Worker.RetryBackoff))
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("kafka consumer start: %w", err)
		}
		consumers = append(consumers, consumer)
	}

	// ── Health probes ─────────────────────────────────────────────────────────
	healthSrv := startHealthServer(healthPort, pool, logger)

	// ── Shutdown ──────────────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", logging.String("signal", sig.String()))

	cancel()
	for _, consumer := range consumers {
		if err := consumer.Stop(); err != nil {
			logger.Warn("consumer stop error", logging.Err(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	logger.Info("curation worker stopped")
	return nil
}

// recordHandler persists one unresolved-name event.  Events with an unknown
// domain are dropped rather than retried: they can never succeed.
func recordHandler(repo *repositories.UnmappedNameRepository, logger logging.Logger) kafka.UnresolvedHandler {
	return func(ctx context.Context, event kafka.UnresolvedNameEvent) error {
		domain, err := entity.ParseDomain(event.Domain)
		if err != nil {
			logger.Warn("dropping event with unknown domain",
				logging.String("domain", event.Domain),
				logging.String("raw_name", event.RawName),
			)
			return nil
		}

		return repo.Record(ctx, &repositories.UnmappedName{
			Domain:         domain,
			RawName:        event.RawName,
			NormalizedName: event.NormalizedName,
			BestScore:      event.BestScore,
		})
	}
}

func startHealthServer(port int, pool *pgxpool.Pool, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("postgres unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	return srv
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "config file %s not found, using environment and defaults\n", path)
	return config.LoadFromEnv()
}

func postgresConfig(cfg config.DatabaseConfig) postgres.Config {
	return postgres.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		DBName:          cfg.DBName,
		SSLMode:         cfg.SSLMode,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
}

func kafkaConfig(cfg config.KafkaConfig) kafka.Config {
	return kafka.Config{
		Brokers:         cfg.Brokers,
		GroupID:         cfg.GroupID,
		AutoOffsetReset: cfg.AutoOffsetReset,
		TimeoutMS:       cfg.TimeoutMS,
		ProducerRetries: cfg.ProducerRetries,
		BatchSize:       cfg.BatchSize,
		AuditTopic:      cfg.AuditTopic,
		UnresolvedTopic: cfg.UnresolvedTopic,
	}
}

//Personal.AI order the ending
