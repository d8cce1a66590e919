// Package query executes interaction queries end to end: resolve the
// requested names per domain, fetch candidate records from the upstream
// interaction database, then select, allocate, rank and citation-transform
// the results under one shared output budget.
package query

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/RxGene-Intelligence/internal/application/resolution"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/interaction"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Config carries the budget policy for interaction queries.
type Config struct {
	// DefaultBudget applies when the caller sends no budget.
	DefaultBudget int
	// MaxBudget caps the caller-supplied budget.
	MaxBudget int
}

func applyDefaults(cfg *Config) {
	if cfg.DefaultBudget <= 0 {
		cfg.DefaultBudget = 100
	}
	if cfg.MaxBudget <= 0 {
		cfg.MaxBudget = 1000
	}
	if cfg.MaxBudget < cfg.DefaultBudget {
		cfg.MaxBudget = cfg.DefaultBudget
	}
}

// NameResolver is the slice of the resolution service the query path needs.
type NameResolver interface {
	ResolveNames(ctx context.Context, input *resolution.ResolveInput) (*resolution.ResolveResult, error)
}

// RecordFetcher pulls candidate interaction records for a batch of names.
// upstream.Client satisfies it.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, domain entity.Domain, names []string) ([]interaction.DomainRecord, error)
}

// Service answers interaction queries for the HTTP and CLI layers.
type Service interface {
	Interactions(ctx context.Context, input *QueryInput) (*QueryResult, error)
}

// QueryInput is one interaction query spanning either or both domains.
// Budget zero means "use the server default".
type QueryInput struct {
	Drugs  []string `json:"drugs,omitempty"`
	Genes  []string `json:"genes,omitempty"`
	Budget int      `json:"budget,omitempty"`
}

// UnresolvedName reports an input that fell back to its raw form. Downstream
// matching then depends on substring containment, so callers should treat
// these results as best-effort.
type UnresolvedName struct {
	Domain    string  `json:"domain"`
	Raw       string  `json:"raw"`
	BestScore float64 `json:"best_score"`
}

// QueryResult carries ranked, citation-transformed interactions per matched
// name in first-match order, plus diagnostics for names that stayed raw.
type QueryResult struct {
	Interactions *interaction.RankedSet `json:"interactions"`
	Unresolved   []UnresolvedName       `json:"unresolved,omitempty"`
	Budget       int                    `json:"budget"`
	Used         int                    `json:"used"`
}

type serviceImpl struct {
	resolver NameResolver
	fetcher  RecordFetcher
	metrics  *metrics.AppMetrics
	config   Config
	logger   logging.Logger
}

// NewService wires the query service. appMetrics may be nil.
func NewService(resolver NameResolver, fetcher RecordFetcher, appMetrics *metrics.AppMetrics, cfg Config, logger logging.Logger) Service {
	applyDefaults(&cfg)
	return &serviceImpl{
		resolver: resolver,
		fetcher:  fetcher,
		metrics:  appMetrics,
		config:   cfg,
		logger:   logger.Named("query"),
	}
}

// domainBatch tracks one domain's names through resolution and fetching.
type domainBatch struct {
	domain   entity.Domain
	names    []string
	resolved []resolution.ResolvedName
	records  []interaction.DomainRecord
}

// Interactions resolves the requested names, fetches drug and gene records
// concurrently, and runs the selection pipeline over the merged candidates so
// the budget is shared across every requested entity.
func (s *serviceImpl) Interactions(ctx context.Context, input *QueryInput) (*QueryResult, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeValidation, "query input is required")
	}
	if len(input.Drugs) == 0 && len(input.Genes) == 0 {
		return nil, errors.New(errors.ErrCodeQueryNoNames, "at least one drug or gene name is required")
	}

	budget, err := s.effectiveBudget(input.Budget)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	batches := make([]*domainBatch, 0, 2)
	if len(input.Drugs) > 0 {
		batches = append(batches, &domainBatch{domain: entity.DomainDrug, names: input.Drugs})
	}
	if len(input.Genes) > 0 {
		batches = append(batches, &domainBatch{domain: entity.DomainGene, names: input.Genes})
	}

	var unresolved []UnresolvedName
	for _, b := range batches {
		res, err := s.resolver.ResolveNames(ctx, &resolution.ResolveInput{Domain: b.domain, Names: b.names})
		if err != nil {
			return nil, err
		}
		b.resolved = res.Results
		for _, r := range res.Results {
			if !r.Matched {
				unresolved = append(unresolved, UnresolvedName{
					Domain:    string(b.domain),
					Raw:       r.Raw,
					BestScore: r.Score,
				})
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, b := range batches {
		b := b
		g.Go(func() error {
			records, err := s.fetcher.FetchRecords(gctx, b.domain, queryNames(b.resolved))
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeQueryFetchFailed,
					"fetching "+string(b.domain)+" records")
			}
			b.records = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// One merged pipeline run keeps the budget shared across domains; batch
	// order (drugs, then genes) keeps the output deterministic.
	var candidates []interaction.DomainRecord
	var names []string
	for _, b := range batches {
		candidates = append(candidates, b.records...)
		names = append(names, queryNames(b.resolved)...)
	}

	ranked, err := interaction.SelectAndRank(candidates, names, budget)
	if err != nil {
		return nil, err
	}

	used := 0
	for _, name := range ranked.Names() {
		list, _ := ranked.Get(name)
		transformed := interaction.ToCitations(list)
		ranked.Set(name, transformed)
		used += len(transformed)
	}

	elapsed := time.Since(started)
	metrics.ObserveInteractionQuery(s.metrics, elapsed)
	metrics.SetBudgetUtilization(s.metrics, float64(used)/float64(budget))

	s.logger.Debug("interaction query served",
		logging.Int("drugs", len(input.Drugs)),
		logging.Int("genes", len(input.Genes)),
		logging.Int("budget", budget),
		logging.Int("used", used),
		logging.Int("unresolved", len(unresolved)),
		logging.Duration("elapsed", elapsed),
	)

	return &QueryResult{
		Interactions: ranked,
		Unresolved:   unresolved,
		Budget:       budget,
		Used:         used,
	}, nil
}

// effectiveBudget applies the default and enforces the configured cap.
func (s *serviceImpl) effectiveBudget(requested int) (int, error) {
	if requested == 0 {
		return s.config.DefaultBudget, nil
	}
	if requested < 0 {
		return 0, errors.New(errors.ErrCodeQueryBudgetInvalid,
			fmt.Sprintf("budget must be positive, got %d", requested))
	}
	if requested > s.config.MaxBudget {
		return 0, errors.New(errors.ErrCodeQueryBudgetInvalid,
			fmt.Sprintf("budget %d exceeds maximum %d", requested, s.config.MaxBudget))
	}
	return requested, nil
}

// queryNames extracts the names to query upstream: canonical where matched,
// raw fallback otherwise, deduplicated in first-appearance order. Two raw
// inputs collapsing to one canonical share a single budget slot.
func queryNames(resolved []resolution.ResolvedName) []string {
	seen := make(map[string]struct{}, len(resolved))
	names := make([]string, 0, len(resolved))
	for _, r := range resolved {
		if r.Name == "" {
			continue
		}
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

//Personal.AI order the ending
