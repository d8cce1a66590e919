// Package kafka publishes resolution audit events and consumes
// unresolved-name events for the curation worker.
package kafka

import (
	"time"

	"github.com/google/uuid"
)

// ResolutionAuditEvent records one name-resolution attempt. Every attempt is
// published, matched or not, so the audit stream reconstructs resolver
// behavior without database access.
type ResolutionAuditEvent struct {
	RequestID      uuid.UUID `json:"request_id"`
	Domain         string    `json:"domain"`
	RawName        string    `json:"raw_name"`
	NormalizedName string    `json:"normalized_name"`
	ResolvedName   string    `json:"resolved_name,omitempty"`
	Score          float64   `json:"score"`
	Threshold      float64   `json:"threshold"`
	Matched        bool      `json:"matched"`
	CacheHit       bool      `json:"cache_hit"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// UnresolvedNameEvent flags an input that stayed below the acceptance
// threshold. The curation worker persists these for dictionary review.
type UnresolvedNameEvent struct {
	RequestID      uuid.UUID `json:"request_id"`
	Domain         string    `json:"domain"`
	RawName        string    `json:"raw_name"`
	NormalizedName string    `json:"normalized_name"`
	BestScore      float64   `json:"best_score"`
	OccurredAt     time.Time `json:"occurred_at"`
}

//Personal.AI order the ending
