// Package repositories contains the PostgreSQL persistence implementations
// for alias dictionaries and unresolved-name curation.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// AliasRepository
// ─────────────────────────────────────────────────────────────────────────────

// AliasRepository stores alias dictionaries in the alias_entries table. The
// position column preserves dictionary order, which index construction relies
// on for collision semantics. It implements entity.TableSource.
type AliasRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAliasRepository constructs a ready-to-use AliasRepository.
func NewAliasRepository(pool *pgxpool.Pool, log logging.Logger) *AliasRepository {
	return &AliasRepository{pool: pool, logger: log}
}

// LoadTable returns the dictionary for a domain ordered by position.
func (r *AliasRepository) LoadTable(ctx context.Context, domain entity.Domain) (entity.AliasTable, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT canonical, aliases
		FROM alias_entries
		WHERE domain = $1
		ORDER BY position ASC`, domain.String())
	if err != nil {
		r.logger.Error("AliasRepository.LoadTable: query", logging.Err(err),
			logging.String("domain", domain.String()))
		return nil, errors.Wrap(err, errors.ErrCodeAliasStoreUnavailable,
			"querying alias entries for domain "+domain.String())
	}
	defer rows.Close()

	var table entity.AliasTable
	for rows.Next() {
		var e entity.AliasEntry
		if err := rows.Scan(&e.Canonical, &e.Aliases); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeAliasStoreUnavailable, "scanning alias entry")
		}
		table = append(table, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAliasStoreUnavailable, "reading alias entries")
	}

	if len(table) == 0 {
		return nil, errors.New(errors.ErrCodeDictionaryEmpty,
			"no alias entries stored for domain "+domain.String())
	}

	r.logger.Debug("Alias dictionary loaded from postgres",
		logging.String("domain", domain.String()),
		logging.Int("entries", len(table)),
	)
	return table, nil
}

// ReplaceTable swaps the stored dictionary for a domain in one transaction.
// Used by the `rxgene alias import` command.
func (r *AliasRepository) ReplaceTable(ctx context.Context, domain entity.Domain, table entity.AliasTable) error {
	if len(table) == 0 {
		return errors.New(errors.ErrCodeDictionaryEmpty, "refusing to import an empty dictionary")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM alias_entries WHERE domain = $1`, domain.String()); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "clearing previous alias entries")
	}

	for i, e := range table {
		_, err := tx.Exec(ctx, `
			INSERT INTO alias_entries (domain, position, canonical, aliases)
			VALUES ($1, $2, $3, $4)`,
			domain.String(), i, e.Canonical, e.Aliases,
		)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "inserting alias entry "+e.Canonical)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}

	r.logger.Info("Alias dictionary replaced",
		logging.String("domain", domain.String()),
		logging.Int("entries", len(table)),
	)
	return nil
}

//Personal.AI order the ending
