package entity

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// TableSource supplies the raw alias dictionary for a domain. Implementations
// live in the infrastructure layer (JSON files, PostgreSQL).
type TableSource interface {
	LoadTable(ctx context.Context, domain Domain) (AliasTable, error)
}

// IndexStats describes one built index: pool size, distinct canonical names,
// key collisions seen during construction, and when the build happened.
type IndexStats struct {
	Domain        Domain        `json:"domain"`
	Keys          int           `json:"keys"`
	Canonicals    int           `json:"canonicals"`
	Collisions    int           `json:"collisions"`
	BuildDuration time.Duration `json:"build_duration"`
	BuiltAt       time.Time     `json:"built_at"`
}

// IndexProvider memoizes one AliasIndex per domain for the lifetime of the
// process. Concurrent first requests for the same domain collapse into a
// single build; failed builds are not cached, so a later request retries the
// source. Invalidate drops a cached index when its dictionary changes.
type IndexProvider struct {
	source   TableSource
	observer func(Domain, IndexStats)

	group singleflight.Group
	mu    sync.RWMutex
	built map[Domain]*AliasIndex
	stats map[Domain]IndexStats
}

// NewIndexProvider creates a provider backed by source.
func NewIndexProvider(source TableSource) *IndexProvider {
	return &IndexProvider{
		source: source,
		built:  make(map[Domain]*AliasIndex, len(AllDomains)),
		stats:  make(map[Domain]IndexStats, len(AllDomains)),
	}
}

// OnBuild registers fn to be invoked after every successful build with the
// fresh index statistics. Set it during wiring, before the provider serves
// requests; registration is not synchronized against in-flight builds.
func (p *IndexProvider) OnBuild(fn func(Domain, IndexStats)) {
	p.observer = fn
}

// Index returns the memoized index for domain, building it on first use.
func (p *IndexProvider) Index(ctx context.Context, domain Domain) (*AliasIndex, error) {
	if !domain.IsValid() {
		return nil, errors.New(errors.ErrCodeResolutionDomainUnknown, "unsupported resolution domain: "+string(domain))
	}

	p.mu.RLock()
	idx, ok := p.built[domain]
	p.mu.RUnlock()
	if ok {
		return idx, nil
	}

	v, err, _ := p.group.Do(string(domain), func() (interface{}, error) {
		// A racing caller may have finished the build after our read miss.
		p.mu.RLock()
		cached, ok := p.built[domain]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		table, err := p.source.LoadTable(ctx, domain)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIndexBuildFailed,
				"loading alias table for domain "+string(domain))
		}

		idx := BuildIndex(table)
		stats := IndexStats{
			Domain:        domain,
			Keys:          idx.Len(),
			Canonicals:    idx.CanonicalCount(),
			Collisions:    idx.Collisions(),
			BuildDuration: time.Since(start),
			BuiltAt:       time.Now(),
		}

		p.mu.Lock()
		p.built[domain] = idx
		p.stats[domain] = stats
		p.mu.Unlock()

		if p.observer != nil {
			p.observer(domain, stats)
		}

		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*AliasIndex), nil
}

// Stats reports size and build information for domain's index, building it
// first when it is not cached yet.
func (p *IndexProvider) Stats(ctx context.Context, domain Domain) (IndexStats, error) {
	if _, err := p.Index(ctx, domain); err != nil {
		return IndexStats{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats[domain], nil
}

// Invalidate drops the cached index for domain so the next request rebuilds
// it from the source. The dictionary file watcher calls this on change.
func (p *IndexProvider) Invalidate(domain Domain) {
	p.mu.Lock()
	delete(p.built, domain)
	delete(p.stats, domain)
	p.mu.Unlock()
}

//Personal.AI order the ending
