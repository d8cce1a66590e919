package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// UnmappedNameRepository
// ─────────────────────────────────────────────────────────────────────────────

// UnmappedName is an input the resolver could not map to a canonical entity,
// recorded for curator review. Repeated sightings of the same normalized form
// collapse into one row with an occurrence count.
type UnmappedName struct {
	ID             uuid.UUID
	Domain         entity.Domain
	RawName        string
	NormalizedName string
	BestScore      float64
	Occurrences    int64
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
}

// UnmappedNameRepository persists unresolved names in the unmapped_names
// table, keyed by (domain, normalized_name).
type UnmappedNameRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewUnmappedNameRepository constructs a ready-to-use UnmappedNameRepository.
func NewUnmappedNameRepository(pool *pgxpool.Pool, log logging.Logger) *UnmappedNameRepository {
	return &UnmappedNameRepository{pool: pool, logger: log}
}

// Record upserts a sighting. A repeat of the same normalized form bumps the
// occurrence counter, keeps the highest score seen, and refreshes the raw
// spelling to the most recent one.
func (r *UnmappedNameRepository) Record(ctx context.Context, n *UnmappedName) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO unmapped_names (id, domain, raw_name, normalized_name, best_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain, normalized_name) DO UPDATE SET
			occurrences = unmapped_names.occurrences + 1,
			last_seen_at = NOW(),
			best_score = GREATEST(unmapped_names.best_score, EXCLUDED.best_score),
			raw_name = EXCLUDED.raw_name
		RETURNING id, occurrences, first_seen_at, last_seen_at`,
		n.ID, n.Domain.String(), n.RawName, n.NormalizedName, n.BestScore,
	).Scan(&n.ID, &n.Occurrences, &n.FirstSeenAt, &n.LastSeenAt)
	if err != nil {
		r.logger.Error("UnmappedNameRepository.Record", logging.Err(err),
			logging.String("domain", n.Domain.String()),
			logging.String("normalized_name", n.NormalizedName))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "recording unmapped name")
	}
	return nil
}

// List returns the most frequently seen unresolved names for a domain.
func (r *UnmappedNameRepository) List(ctx context.Context, domain entity.Domain, limit int) ([]*UnmappedName, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, domain, raw_name, normalized_name, best_score, occurrences, first_seen_at, last_seen_at
		FROM unmapped_names
		WHERE domain = $1
		ORDER BY occurrences DESC, last_seen_at DESC
		LIMIT $2`, domain.String(), limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "listing unmapped names")
	}
	defer rows.Close()

	var names []*UnmappedName
	for rows.Next() {
		var n UnmappedName
		var domainStr string
		if err := rows.Scan(&n.ID, &domainStr, &n.RawName, &n.NormalizedName,
			&n.BestScore, &n.Occurrences, &n.FirstSeenAt, &n.LastSeenAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scanning unmapped name")
		}
		n.Domain = entity.Domain(domainStr)
		names = append(names, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "reading unmapped names")
	}
	return names, nil
}

// Delete removes a curated entry. Returns ErrCodeNotFound when no row matches.
func (r *UnmappedNameRepository) Delete(ctx context.Context, domain entity.Domain, normalizedName string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM unmapped_names
		WHERE domain = $1 AND normalized_name = $2`, domain.String(), normalizedName)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "deleting unmapped name")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeNotFound, "unmapped name not found: "+normalizedName)
	}
	return nil
}

//Personal.AI order the ending
