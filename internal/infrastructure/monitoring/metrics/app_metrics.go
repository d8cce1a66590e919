package metrics

import (
	"strconv"
	"time"
)

// Label values shared by the services so the same outcome is never spelled
// two ways across the codebase.
const (
	OutcomeExact      = "exact"
	OutcomeFuzzy      = "fuzzy"
	OutcomeUnresolved = "unresolved"

	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheOK    = "ok"
	CacheError = "error"
)

// AppMetrics holds every instrument the platform records into.
type AppMetrics struct {
	// Resolution layer
	ResolutionRequestsTotal CounterVec
	ResolutionScore         HistogramVec
	IndexBuildSeconds       HistogramVec

	// Query layer
	InteractionQuerySeconds HistogramVec
	BudgetUtilizationRatio  GaugeVec

	// Infrastructure layer
	CacheOperationsTotal CounterVec
	EventsPublishedTotal CounterVec

	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets per instrument family.
var (
	DefaultScoreBuckets      = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 0.99}
	DefaultIndexBuildBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultQueryBuckets      = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultHTTPBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// NewAppMetrics registers all application instruments on the collector.
func NewAppMetrics(collector Collector) *AppMetrics {
	m := &AppMetrics{}

	// Resolution
	m.ResolutionRequestsTotal = collector.RegisterCounter("resolution_requests_total", "Entity resolution attempts by domain and outcome", "domain", "outcome")
	m.ResolutionScore = collector.RegisterHistogram("resolution_score", "Similarity score of the best candidate per resolution", DefaultScoreBuckets)
	m.IndexBuildSeconds = collector.RegisterHistogram("index_build_seconds", "Alias index build duration", DefaultIndexBuildBuckets, "domain")

	// Query
	m.InteractionQuerySeconds = collector.RegisterHistogram("interaction_query_seconds", "End-to-end interaction query duration", DefaultQueryBuckets)
	m.BudgetUtilizationRatio = collector.RegisterGauge("budget_utilization_ratio", "Share of the allocation budget consumed by the last query")

	// Infrastructure
	m.CacheOperationsTotal = collector.RegisterCounter("cache_operations_total", "Cache operations by op and outcome", "op", "outcome")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events enqueued for publication by topic", "topic")

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method", "path")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────
//
// All helpers accept a nil *AppMetrics and do nothing; services treat
// telemetry as optional and must not carry nil checks at every call site.

// RecordResolution counts one resolution attempt.
func RecordResolution(metrics *AppMetrics, domain, outcome string) {
	if metrics == nil {
		return
	}
	metrics.ResolutionRequestsTotal.WithLabelValues(domain, outcome).Inc()
}

// ObserveResolutionScore records the best-candidate score of a resolution,
// matched or not.
func ObserveResolutionScore(metrics *AppMetrics, score float64) {
	if metrics == nil {
		return
	}
	metrics.ResolutionScore.WithLabelValues().Observe(score)
}

// ObserveIndexBuild records one alias index build.
func ObserveIndexBuild(metrics *AppMetrics, domain string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.IndexBuildSeconds.WithLabelValues(domain).Observe(duration.Seconds())
}

// ObserveInteractionQuery records the duration of one interaction query,
// upstream fetches included.
func ObserveInteractionQuery(metrics *AppMetrics, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.InteractionQuerySeconds.WithLabelValues().Observe(duration.Seconds())
}

// SetBudgetUtilization publishes how much of the allocation budget the most
// recent query consumed, in [0, 1].
func SetBudgetUtilization(metrics *AppMetrics, ratio float64) {
	if metrics == nil {
		return
	}
	metrics.BudgetUtilizationRatio.WithLabelValues().Set(ratio)
}

// RecordCacheOperation counts one cache access.
func RecordCacheOperation(metrics *AppMetrics, op, outcome string) {
	if metrics == nil {
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordEventPublished counts one event written to the broker.
func RecordEventPublished(metrics *AppMetrics, topic string) {
	if metrics == nil {
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := strconv.Itoa(statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetHealthStatus publishes a component health flag.
func SetHealthStatus(metrics *AppMetrics, component string, healthy bool) {
	if metrics == nil {
		return
	}
	value := 0.0
	if healthy {
		value = 1.0
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(value)
}

// RecordError counts one error by origin and severity.
func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}

//Personal.AI order the ending
