package client

import (
	"context"
	"fmt"

	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// ResolutionClient provides access to the entity-resolution endpoints.
type ResolutionClient struct {
	client *Client
}

// ResolveRequest is one batch of raw names for a single entity domain.
type ResolveRequest struct {
	Domain string   `json:"domain"`
	Names  []string `json:"names"`
}

// ResolvedName is the per-name outcome.  Name carries the canonical form on
// a match and the raw input otherwise; Matched tells the two apart.
type ResolvedName struct {
	Raw     string  `json:"raw"`
	Name    string  `json:"name"`
	Matched bool    `json:"matched"`
	Score   float64 `json:"score"`
}

// ResolveResult pairs the domain with per-name outcomes in request order.
type ResolveResult struct {
	Domain  string         `json:"domain"`
	Results []ResolvedName `json:"results"`
}

// AliasStats describes one domain's alias index: candidate pool size,
// distinct canonical names, key collisions seen during construction, and
// build timing.
type AliasStats struct {
	Domain        string `json:"domain"`
	Keys          int    `json:"keys"`
	Canonicals    int    `json:"canonicals"`
	Collisions    int    `json:"collisions"`
	BuildDuration int64  `json:"build_duration"`
	BuiltAt       string `json:"built_at"`
}

// Resolve maps a batch of free-form names to canonical identifiers.
func (rc *ResolutionClient) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResult, error) {
	if req == nil {
		return nil, fmt.Errorf("client: resolve request is required")
	}
	if req.Domain == "" {
		return nil, fmt.Errorf("client: resolve request domain is required")
	}
	if len(req.Names) == 0 {
		return nil, fmt.Errorf("client: resolve request needs at least one name")
	}

	var envelope common.APIResponse[ResolveResult]
	if err := rc.client.post(ctx, "/api/v1/resolve", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Stats fetches alias-index statistics for a domain ("drug" or "gene").
func (rc *ResolutionClient) Stats(ctx context.Context, domain string) (*AliasStats, error) {
	if domain == "" {
		return nil, fmt.Errorf("client: domain is required")
	}

	var envelope common.APIResponse[AliasStats]
	if err := rc.client.get(ctx, "/api/v1/aliases/"+domain+"/stats", &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

//Personal.AI order the ending
