// Package config defines all configuration structures for the
// RxGene-Intelligence platform.  No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP and gRPC server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the resolution cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters for the
// resolution audit stream.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	TimeoutMS       int      `mapstructure:"timeout_ms"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	AuditTopic      string   `mapstructure:"audit_topic"`
	UnresolvedTopic string   `mapstructure:"unresolved_topic"`
}

// UpstreamConfig holds connection parameters for the interaction database
// the query service fetches domain records from.
type UpstreamConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// ResolverConfig holds fuzzy-resolution tunables.
type ResolverConfig struct {
	// Threshold is the minimum similarity score in [0,1] a candidate must
	// reach before its canonical name is accepted.
	Threshold float64 `mapstructure:"threshold"`

	// CacheTTL bounds how long a resolved (domain, raw name) pair stays in
	// the Redis cache.  Zero disables expiry jittering around a default.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// MaxNamesPerRequest caps the number of names a single resolve or
	// interactions request may carry.
	MaxNamesPerRequest int `mapstructure:"max_names_per_request"`
}

// QueryConfig holds interaction-query tunables.
type QueryConfig struct {
	// DefaultBudget is the total interaction budget applied when the caller
	// does not supply one.
	DefaultBudget int `mapstructure:"default_budget"`

	// MaxBudget caps the caller-supplied budget.
	MaxBudget int `mapstructure:"max_budget"`
}

// AliasConfig describes where per-domain alias dictionaries come from.
type AliasConfig struct {
	// Source selects the dictionary backend: "file" | "postgres".
	Source string `mapstructure:"source"`

	// DrugDictPath / GeneDictPath point at the JSON dictionary files used by
	// the file source.  Ignored when Source is "postgres".
	DrugDictPath string `mapstructure:"drug_dict_path"`
	GeneDictPath string `mapstructure:"gene_dict_path"`

	// Watch enables the fsnotify watcher that invalidates the in-process
	// alias index when a dictionary file changes on disk.
	Watch bool `mapstructure:"watch"`
}

// WorkerConfig holds background-worker execution parameters for the
// unresolved-name consumer.
type WorkerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	QueueDepth   int           `mapstructure:"queue_depth"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "console"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// TelemetryConfig holds Prometheus metrics parameters.
type TelemetryConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPath    string `mapstructure:"metrics_path"`
	Namespace      string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Query     QueryConfig     `mapstructure:"query"`
	Alias     AliasConfig     `mapstructure:"alias"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.GRPCPort < 1 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("config: server.grpc_port %d is out of range [1, 65535]", c.Server.GRPCPort)
	}
	if c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("config: server.grpc_port must differ from server.port, both are %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}
	if c.Kafka.AuditTopic == "" {
		return fmt.Errorf("config: kafka.audit_topic is required")
	}
	if c.Kafka.UnresolvedTopic == "" {
		return fmt.Errorf("config: kafka.unresolved_topic is required")
	}

	// Upstream
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}

	// Resolver
	if c.Resolver.Threshold < 0 || c.Resolver.Threshold > 1 {
		return fmt.Errorf("config: resolver.threshold %.3f is out of range [0, 1]", c.Resolver.Threshold)
	}
	if c.Resolver.MaxNamesPerRequest < 1 {
		return fmt.Errorf("config: resolver.max_names_per_request must be ≥ 1, got %d", c.Resolver.MaxNamesPerRequest)
	}

	// Query
	if c.Query.DefaultBudget < 1 {
		return fmt.Errorf("config: query.default_budget must be ≥ 1, got %d", c.Query.DefaultBudget)
	}
	if c.Query.MaxBudget < c.Query.DefaultBudget {
		return fmt.Errorf("config: query.max_budget %d must be ≥ query.default_budget %d",
			c.Query.MaxBudget, c.Query.DefaultBudget)
	}

	// Alias
	switch c.Alias.Source {
	case "file":
		if c.Alias.DrugDictPath == "" {
			return fmt.Errorf("config: alias.drug_dict_path is required when alias.source is \"file\"")
		}
		if c.Alias.GeneDictPath == "" {
			return fmt.Errorf("config: alias.gene_dict_path is required when alias.source is \"file\"")
		}
	case "postgres":
	default:
		return fmt.Errorf("config: alias.source %q is invalid; expected file|postgres", c.Alias.Source)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
