package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/RxGene-Intelligence/internal/config"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/upstream"
)

// ─────────────────────────────────────────────────────────────────────────────
// Config mapping
//
// Each infrastructure package declares its own Config so it never depends on
// viper; these helpers translate the loaded platform config into them.
// ─────────────────────────────────────────────────────────────────────────────

func logConfig(cfg config.LogConfig) logging.LogConfig {
	outputs := []string{"stdout"}
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
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

func redisConfig(cfg config.RedisConfig) cache.Config {
	return cache.Config{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
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

func upstreamConfig(cfg config.UpstreamConfig) upstream.Config {
	return upstream.Config{
		BaseURL:        cfg.BaseURL,
		APIKey:         cfg.APIKey,
		RequestTimeout: cfg.Timeout,
		RetryAttempts:  cfg.MaxRetries,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Health check adapters
// ─────────────────────────────────────────────────────────────────────────────

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string {
	return "redis"
}

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

type postgresHealthAdapter struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

func (a *postgresHealthAdapter) Name() string {
	return "postgres"
}

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return postgres.HealthCheck(ctx, a.pool, a.logger)
}

//Personal.AI order the ending
