// Package config provides configuration loading, defaults, and validation for
// the RxGene-Intelligence platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultGRPCPort   = 9090
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "rxgene"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "rxgene:"

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroupID    = "rxgene-workers"
	DefaultAuditTopic      = "rxgene.resolution.audit"
	DefaultUnresolvedTopic = "rxgene.resolution.unresolved"

	DefaultUpstreamBaseURL = "https://dgidb.org/api/graphql"
	DefaultUpstreamTimeout = 15 * time.Second

	// DefaultSimilarityThreshold is the minimum bigram similarity a fuzzy
	// candidate must clear before its canonical name is accepted.
	DefaultSimilarityThreshold = 0.70
	DefaultMaxNamesPerRequest  = 50
	DefaultResolutionCacheTTL  = 6 * time.Hour

	DefaultQueryBudget    = 100
	DefaultQueryMaxBudget = 1000

	DefaultAliasSource  = "file"
	DefaultDrugDictPath = "configs/dictionaries/drugs.json"
	DefaultGeneDictPath = "configs/dictionaries/genes.json"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 4

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "rxgene"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.GRPCPort == 0 {
		cfg.Server.GRPCPort = DefaultGRPCPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultResolutionCacheTTL
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.AuditTopic == "" {
		cfg.Kafka.AuditTopic = DefaultAuditTopic
	}
	if cfg.Kafka.UnresolvedTopic == "" {
		cfg.Kafka.UnresolvedTopic = DefaultUnresolvedTopic
	}

	// ── Upstream ──────────────────────────────────────────────────────────────
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = "rxgene-intelligence"
	}

	// ── Resolver ──────────────────────────────────────────────────────────────
	if cfg.Resolver.Threshold == 0 {
		cfg.Resolver.Threshold = DefaultSimilarityThreshold
	}
	if cfg.Resolver.CacheTTL == 0 {
		cfg.Resolver.CacheTTL = DefaultResolutionCacheTTL
	}
	if cfg.Resolver.MaxNamesPerRequest == 0 {
		cfg.Resolver.MaxNamesPerRequest = DefaultMaxNamesPerRequest
	}

	// ── Query ─────────────────────────────────────────────────────────────────
	if cfg.Query.DefaultBudget == 0 {
		cfg.Query.DefaultBudget = DefaultQueryBudget
	}
	if cfg.Query.MaxBudget == 0 {
		cfg.Query.MaxBudget = DefaultQueryMaxBudget
	}

	// ── Alias ─────────────────────────────────────────────────────────────────
	if cfg.Alias.Source == "" {
		cfg.Alias.Source = DefaultAliasSource
	}
	if cfg.Alias.DrugDictPath == "" {
		cfg.Alias.DrugDictPath = DefaultDrugDictPath
	}
	if cfg.Alias.GeneDictPath == "" {
		cfg.Alias.GeneDictPath = DefaultGeneDictPath
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = 2 * time.Second
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Telemetry ─────────────────────────────────────────────────────────────
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = DefaultMetricsPath
	}
	if cfg.Telemetry.Namespace == "" {
		cfg.Telemetry.Namespace = DefaultMetricsNamespace
	}
}

//Personal.AI order the ending
