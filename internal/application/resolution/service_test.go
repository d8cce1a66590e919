package resolution

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

func TestResolveNames_MixedBatch(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, nil, sink)

	result, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"Gleevec", "Imatnib", "zzzz", ""},
	})
	require.NoError(t, err)
	require.Equal(t, entity.DomainDrug, result.Domain)
	require.Len(t, result.Results, 4)

	exact := result.Results[0]
	assert.Equal(t, "Gleevec", exact.Raw)
	assert.Equal(t, "Imatinib", exact.Name)
	assert.True(t, exact.Matched)
	assert.Equal(t, 1.0, exact.Score)

	fuzzy := result.Results[1]
	assert.Equal(t, "Imatinib", fuzzy.Name)
	assert.True(t, fuzzy.Matched)
	assert.InDelta(t, 0.769, fuzzy.Score, 0.001)

	unresolved := result.Results[2]
	assert.Equal(t, "zzzz", unresolved.Name, "unresolved names fall back to the raw input")
	assert.False(t, unresolved.Matched)

	empty := result.Results[3]
	assert.Empty(t, empty.Name)
	assert.False(t, empty.Matched)

	audits := sink.auditEvents()
	require.Len(t, audits, 4, "every attempt is audited, matched or not")
	assert.Equal(t, "Imatinib", audits[0].ResolvedName)
	assert.True(t, audits[0].Matched)
	assert.InDelta(t, 0.7, audits[0].Threshold, 1e-9)
	assert.False(t, audits[2].Matched)
	assert.Empty(t, audits[2].ResolvedName)

	flagged := sink.unresolvedEvents()
	require.Len(t, flagged, 1, "empty inputs are not curatable")
	assert.Equal(t, "zzzz", flagged[0].RawName)
	assert.Equal(t, "drug", flagged[0].Domain)
}

func TestResolveNames_WritesBackMatchedOnly(t *testing.T) {
	store := newFakeCache()
	svc := newTestService(t, store, nil)

	_, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"Gleevec", "zzzz"},
	})
	require.NoError(t, err)

	// The write-back runs off the request path.
	require.Eventually(t, func() bool {
		_, ok := store.value("entity:drug:gleevec")
		return ok
	}, time.Second, 5*time.Millisecond)

	raw, _ := store.value("entity:drug:gleevec")
	var cached cachedResolution
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, "Imatinib", cached.Canonical)
	assert.Equal(t, 1.0, cached.Score)
	assert.True(t, cached.Exact)

	_, ok := store.value("entity:drug:zzzz")
	assert.False(t, ok, "unresolved outcomes must never be cached")
}

func TestResolveNames_CacheHitShortCircuitsScoring(t *testing.T) {
	store := newFakeCache()
	seedCache(t, store, "entity:drug:gleevec", cachedResolution{
		Canonical: "CachedAnswer",
		Score:     0.93,
	})
	sink := &fakeSink{}
	svc := newTestService(t, store, sink)

	result, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"GLEEVEC"},
	})
	require.NoError(t, err)

	got := result.Results[0]
	assert.Equal(t, "CachedAnswer", got.Name, "a cache hit must bypass the index entirely")
	assert.True(t, got.Matched)
	assert.InDelta(t, 0.93, got.Score, 1e-9)

	audits := sink.auditEvents()
	require.Len(t, audits, 1)
	assert.True(t, audits[0].CacheHit)

	assert.Zero(t, store.setCount(), "cache hits must not trigger a write-back")
}

func TestResolveNames_CacheReadFailureDegradesToCompute(t *testing.T) {
	store := newFakeCache()
	store.getErr = assert.AnError
	svc := newTestService(t, store, nil)

	result, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"Gleevec"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Imatinib", result.Results[0].Name)
	assert.True(t, result.Results[0].Matched)
}

func TestResolveNames_UnknownDomain(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.Domain("protein"),
		Names:  []string{"BTK"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeResolutionDomainUnknown))
}

func TestResolveNames_NilInput(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.ResolveNames(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestResolveNames_EmptyBatch(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, nil, sink)

	result, err := svc.ResolveNames(context.Background(), &ResolveInput{Domain: entity.DomainGene})
	require.NoError(t, err)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
	assert.Empty(t, sink.auditEvents())
}

func TestResolveNames_RequestIDReachesAuditEvents(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, nil, sink)

	id := uuid.New()
	ctx := context.WithValue(context.Background(), common.ContextKeyRequestID, id.String())

	_, err := svc.ResolveNames(ctx, &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"Gleevec"},
	})
	require.NoError(t, err)

	audits := sink.auditEvents()
	require.Len(t, audits, 1)
	assert.Equal(t, id, audits[0].RequestID)
}

func TestResolveNames_WithoutCollaborators(t *testing.T) {
	svc := newTestService(t, nil, nil)

	result, err := svc.ResolveNames(context.Background(), &ResolveInput{
		Domain: entity.DomainDrug,
		Names:  []string{"Herceptin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Trastuzumab", result.Results[0].Name)
}

func TestStats_ReportsIndexShape(t *testing.T) {
	svc := newTestService(t, nil, nil)

	stats, err := svc.Stats(context.Background(), entity.DomainDrug)
	require.NoError(t, err)
	assert.Equal(t, entity.DomainDrug, stats.Domain)
	assert.Equal(t, 6, stats.Keys)
	assert.Equal(t, 2, stats.Canonicals)
}

func TestReady(t *testing.T) {
	svc := newTestService(t, nil, nil)
	assert.NoError(t, svc.Ready(context.Background()))

	// A domain whose dictionary cannot load makes the service not ready.
	broken := NewService(&fakeIndexes{indexes: map[entity.Domain]*entity.AliasIndex{
		entity.DomainDrug: entity.BuildIndex(testTable()),
	}}, nil, nil, nil, Config{}, logging.NewNopLogger())

	err := broken.Ready(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.True(t, errors.IsCode(err, errors.ErrCodeResolutionDomainUnknown), "cause must stay in the chain")
}

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

func testTable() entity.AliasTable {
	return entity.AliasTable{
		{Canonical: "Imatinib", Aliases: []string{"Glivec", "Gleevec", "STI-571"}},
		{Canonical: "Trastuzumab", Aliases: []string{"Herceptin"}},
	}
}

func newTestService(t *testing.T, store cache.Cache, sink EventSink) Service {
	t.Helper()
	indexes := &fakeIndexes{indexes: map[entity.Domain]*entity.AliasIndex{
		entity.DomainDrug: entity.BuildIndex(testTable()),
		entity.DomainGene: entity.BuildIndex(entity.AliasTable{
			{Canonical: "BTK", Aliases: []string{"Bruton tyrosine kinase"}},
		}),
	}}
	return NewService(indexes, store, sink, nil,
		Config{Threshold: 0.7, CacheTTL: time.Minute}, logging.NewNopLogger())
}

func seedCache(t *testing.T, store *fakeCache, key string, value cachedResolution) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	store.mu.Lock()
	store.data[key] = raw
	store.mu.Unlock()
}

type fakeIndexes struct {
	indexes map[entity.Domain]*entity.AliasIndex
}

func (f *fakeIndexes) Index(_ context.Context, domain entity.Domain) (*entity.AliasIndex, error) {
	idx, ok := f.indexes[domain]
	if !ok {
		return nil, errors.New(errors.ErrCodeResolutionDomainUnknown,
			"unsupported resolution domain: "+string(domain))
	}
	return idx, nil
}

func (f *fakeIndexes) Stats(ctx context.Context, domain entity.Domain) (entity.IndexStats, error) {
	idx, err := f.Index(ctx, domain)
	if err != nil {
		return entity.IndexStats{}, err
	}
	return entity.IndexStats{
		Domain:        domain,
		Keys:          idx.Len(),
		Canonicals:    idx.CanonicalCount(),
		BuildDuration: time.Millisecond,
		BuiltAt:       time.Now(),
	}, nil
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(context.Context, ...string) error       { return nil }
func (c *fakeCache) Exists(context.Context, string) (bool, error)  { return false, nil }
func (c *fakeCache) DeleteByPrefix(context.Context, string) (int64, error) {
	return 0, nil
}
func (c *fakeCache) GetOrSet(context.Context, string, interface{}, time.Duration, func(ctx context.Context) (interface{}, error)) error {
	return nil
}
func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

func (c *fakeCache) value(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	return raw, ok
}

func (c *fakeCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type fakeSink struct {
	mu         sync.Mutex
	audits     []kafka.ResolutionAuditEvent
	unresolved []kafka.UnresolvedNameEvent
}

func (s *fakeSink) EnqueueAudit(event kafka.ResolutionAuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, event)
}

func (s *fakeSink) EnqueueUnresolved(event kafka.UnresolvedNameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unresolved = append(s.unresolved, event)
}

func (s *fakeSink) auditEvents() []kafka.ResolutionAuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kafka.ResolutionAuditEvent, len(s.audits))
	copy(out, s.audits)
	return out
}

func (s *fakeSink) unresolvedEvents() []kafka.UnresolvedNameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kafka.UnresolvedNameEvent, len(s.unresolved))
	copy(out, s.unresolved)
	return out
}

//Personal.AI order the ending
