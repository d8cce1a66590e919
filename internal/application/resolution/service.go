// Package resolution orchestrates entity-name resolution around the pure
// domain resolver: a Redis consult before fuzzy scoring, an asynchronous
// write-back after it, audit events for every attempt, and index statistics
// for the alias admin surface.
package resolution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// cacheWriteTimeout bounds the detached write-back so an unhealthy Redis
// cannot pile up goroutines.
const cacheWriteTimeout = 2 * time.Second

// Config carries the resolver tuning the service needs.
type Config struct {
	// Threshold is the minimum similarity score a fuzzy candidate must reach.
	Threshold float64
	// CacheTTL bounds how long a matched (domain, name) pair stays in Redis.
	CacheTTL time.Duration
}

func applyDefaults(cfg *Config) {
	if cfg.Threshold <= 0 {
		cfg.Threshold = entity.DefaultThreshold
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
}

// IndexSource is the slice of the index provider the service depends on.
// *entity.IndexProvider satisfies it.
type IndexSource interface {
	Index(ctx context.Context, domain entity.Domain) (*entity.AliasIndex, error)
	Stats(ctx context.Context, domain entity.Domain) (entity.IndexStats, error)
}

// EventSink receives resolution events. Implementations are fire-and-forget;
// publishing never fails a request. *kafka.Producer satisfies it.
type EventSink interface {
	EnqueueAudit(event kafka.ResolutionAuditEvent)
	EnqueueUnresolved(event kafka.UnresolvedNameEvent)
}

// Service resolves raw entity names for the HTTP and query layers.
type Service interface {
	ResolveNames(ctx context.Context, input *ResolveInput) (*ResolveResult, error)
	Stats(ctx context.Context, domain entity.Domain) (*entity.IndexStats, error)
	Ready(ctx context.Context) error
}

// ResolveInput carries one batch of raw names for a single domain.
type ResolveInput struct {
	Domain entity.Domain `json:"domain"`
	Names  []string      `json:"names"`
}

// ResolvedName is the per-name outcome. Name carries the canonical form on a
// match and falls back to the raw input otherwise; the fallback is lossy for
// genuinely unknown names, because downstream record matching then degrades
// to substring containment against raw user text. Matched tells the two
// apart.
type ResolvedName struct {
	Raw     string  `json:"raw"`
	Name    string  `json:"name"`
	Matched bool    `json:"matched"`
	Score   float64 `json:"score"`
}

// ResolveResult pairs the domain with per-name outcomes in request order.
type ResolveResult struct {
	Domain  entity.Domain  `json:"domain"`
	Results []ResolvedName `json:"results"`
}

// cachedResolution is the Redis value for one matched (domain, name) pair.
// Unresolved outcomes are never cached, so dictionary fixes take effect as
// soon as the index rebuilds.
type cachedResolution struct {
	Canonical string  `json:"canonical"`
	Score     float64 `json:"score"`
	Exact     bool    `json:"exact"`
}

type serviceImpl struct {
	indexes IndexSource
	store   cache.Cache
	events  EventSink
	metrics *metrics.AppMetrics
	config  Config
	logger  logging.Logger
}

// NewService wires the resolution service. store, events and appMetrics may
// each be nil; the service then resolves without caching, auditing or
// telemetry respectively.
func NewService(indexes IndexSource, store cache.Cache, events EventSink, appMetrics *metrics.AppMetrics, cfg Config, logger logging.Logger) Service {
	applyDefaults(&cfg)
	return &serviceImpl{
		indexes: indexes,
		store:   store,
		events:  events,
		metrics: appMetrics,
		config:  cfg,
		logger:  logger.Named("resolution"),
	}
}

// ResolveNames resolves every name in the batch independently, in request
// order. Unresolved names are ordinary data, never errors.
func (s *serviceImpl) ResolveNames(ctx context.Context, input *ResolveInput) (*ResolveResult, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeValidation, "resolve input is required")
	}

	idx, err := s.indexes.Index(ctx, input.Domain)
	if err != nil {
		return nil, err
	}

	requestID := requestIDFrom(ctx)
	results := make([]ResolvedName, 0, len(input.Names))
	matched := 0
	for _, raw := range input.Names {
		r := s.resolveOne(ctx, input.Domain, idx, requestID, raw)
		if r.Matched {
			matched++
		}
		results = append(results, r)
	}

	s.logger.Debug("resolved name batch",
		logging.String("domain", string(input.Domain)),
		logging.Int("total", len(results)),
		logging.Int("matched", matched),
	)

	return &ResolveResult{Domain: input.Domain, Results: results}, nil
}

// Stats reports alias index statistics without exposing dictionary contents.
func (s *serviceImpl) Stats(ctx context.Context, domain entity.Domain) (*entity.IndexStats, error) {
	stats, err := s.indexes.Stats(ctx, domain)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Ready ensures every resolution domain has a built index. The readiness
// probe calls it; after the first success per domain this is a memoized
// lookup.
func (s *serviceImpl) Ready(ctx context.Context) error {
	for _, domain := range entity.AllDomains {
		if _, err := s.indexes.Index(ctx, domain); err != nil {
			return errors.Wrap(err, errors.ErrCodeServiceUnavailable,
				"alias index for domain "+string(domain)+" is not ready")
		}
	}
	return nil
}

func (s *serviceImpl) resolveOne(ctx context.Context, domain entity.Domain, idx *entity.AliasIndex, requestID uuid.UUID, raw string) ResolvedName {
	normalized := entity.Normalize(raw)
	if normalized == "" {
		// Nothing to score, cache, or curate; still audited so the stream
		// stays complete.
		metrics.RecordResolution(s.metrics, string(domain), metrics.OutcomeUnresolved)
		s.audit(requestID, domain, raw, normalized, entity.Resolution{}, false)
		return ResolvedName{Raw: raw, Name: raw}
	}

	if hit, ok := s.fromCache(ctx, domain, normalized); ok {
		metrics.RecordResolution(s.metrics, string(domain), outcomeLabel(hit.Exact))
		metrics.ObserveResolutionScore(s.metrics, hit.Score)
		s.audit(requestID, domain, raw, normalized,
			entity.Resolution{Canonical: hit.Canonical, Score: hit.Score, Matched: true, Exact: hit.Exact}, true)
		return ResolvedName{Raw: raw, Name: hit.Canonical, Matched: true, Score: hit.Score}
	}

	r := entity.ResolveDetailed(raw, idx, s.config.Threshold)
	metrics.ObserveResolutionScore(s.metrics, r.Score)
	s.audit(requestID, domain, raw, normalized, r, false)

	if !r.Matched {
		metrics.RecordResolution(s.metrics, string(domain), metrics.OutcomeUnresolved)
		s.flagUnresolved(requestID, domain, raw, normalized, r.Score)
		return ResolvedName{Raw: raw, Name: raw, Score: r.Score}
	}

	metrics.RecordResolution(s.metrics, string(domain), outcomeLabel(r.Exact))
	s.writeBack(domain, normalized, r)
	return ResolvedName{Raw: raw, Name: r.Canonical, Matched: true, Score: r.Score}
}

func (s *serviceImpl) fromCache(ctx context.Context, domain entity.Domain, normalized string) (cachedResolution, bool) {
	if s.store == nil {
		return cachedResolution{}, false
	}

	var hit cachedResolution
	err := s.store.Get(ctx, resolutionKey(domain, normalized), &hit)
	switch {
	case err == nil:
		metrics.RecordCacheOperation(s.metrics, metrics.CacheOpGet, metrics.CacheHit)
		return hit, true
	case err == cache.ErrCacheMiss:
		metrics.RecordCacheOperation(s.metrics, metrics.CacheOpGet, metrics.CacheMiss)
	default:
		metrics.RecordCacheOperation(s.metrics, metrics.CacheOpGet, metrics.CacheError)
		s.logger.Warn("resolution cache read failed",
			logging.String("domain", string(domain)),
			logging.Err(err),
		)
	}
	return cachedResolution{}, false
}

// writeBack stores a matched resolution off the request path. Cache failures
// degrade to direct compute on later requests, never into the response.
func (s *serviceImpl) writeBack(domain entity.Domain, normalized string, r entity.Resolution) {
	if s.store == nil {
		return
	}

	value := cachedResolution{Canonical: r.Canonical, Score: r.Score, Exact: r.Exact}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := s.store.Set(ctx, resolutionKey(domain, normalized), value, s.config.CacheTTL); err != nil {
			metrics.RecordCacheOperation(s.metrics, metrics.CacheOpSet, metrics.CacheError)
			s.logger.Warn("resolution cache write failed",
				logging.String("domain", string(domain)),
				logging.Err(err),
			)
			return
		}
		metrics.RecordCacheOperation(s.metrics, metrics.CacheOpSet, metrics.CacheOK)
	}()
}

func (s *serviceImpl) audit(requestID uuid.UUID, domain entity.Domain, raw, normalized string, r entity.Resolution, cacheHit bool) {
	if s.events == nil {
		return
	}
	s.events.EnqueueAudit(kafka.ResolutionAuditEvent{
		RequestID:      requestID,
		Domain:         string(domain),
		RawName:        raw,
		NormalizedName: normalized,
		ResolvedName:   r.Canonical,
		Score:          r.Score,
		Threshold:      s.config.Threshold,
		Matched:        r.Matched,
		CacheHit:       cacheHit,
		OccurredAt:     time.Now().UTC(),
	})
}

// flagUnresolved queues a curation event. Inputs that normalize to nothing
// are not curatable; the caller skips them.
func (s *serviceImpl) flagUnresolved(requestID uuid.UUID, domain entity.Domain, raw, normalized string, bestScore float64) {
	if s.events == nil {
		return
	}
	s.events.EnqueueUnresolved(kafka.UnresolvedNameEvent{
		RequestID:      requestID,
		Domain:         string(domain),
		RawName:        raw,
		NormalizedName: normalized,
		BestScore:      bestScore,
		OccurredAt:     time.Now().UTC(),
	})
}

func outcomeLabel(exact bool) string {
	if exact {
		return metrics.OutcomeExact
	}
	return metrics.OutcomeFuzzy
}

// resolutionKey builds the per-name cache key; the cache layer prepends the
// process-wide prefix.
func resolutionKey(domain entity.Domain, normalized string) string {
	return "entity:" + string(domain) + ":" + normalized
}

// requestIDFrom recovers the middleware-assigned request id; uuid.Nil when
// the context carries none (CLI paths, tests).
func requestIDFrom(ctx context.Context) uuid.UUID {
	raw, _ := ctx.Value(common.ContextKeyRequestID).(string)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

//Personal.AI order the ending
