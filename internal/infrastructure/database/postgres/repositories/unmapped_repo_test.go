//go:build integration

package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

func TestUnmappedNameRepository_RecordFirstSighting(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewUnmappedNameRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	n := &repositories.UnmappedName{
		Domain:         entity.DomainDrug,
		RawName:        "Imatinibb",
		NormalizedName: "imatinibb",
		BestScore:      0.62,
	}
	require.NoError(t, repo.Record(ctx, n))

	assert.NotZero(t, n.ID)
	assert.EqualValues(t, 1, n.Occurrences)
	assert.False(t, n.FirstSeenAt.IsZero())
	assert.Equal(t, n.FirstSeenAt, n.LastSeenAt)
}

func TestUnmappedNameRepository_RepeatSightingsCollapse(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewUnmappedNameRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	first := &repositories.UnmappedName{
		Domain:         entity.DomainDrug,
		RawName:        "Glivic",
		NormalizedName: "glivic",
		BestScore:      0.55,
	}
	require.NoError(t, repo.Record(ctx, first))

	repeat := &repositories.UnmappedName{
		Domain:         entity.DomainDrug,
		RawName:        "GLIVIC",
		NormalizedName: "glivic",
		BestScore:      0.68,
	}
	require.NoError(t, repo.Record(ctx, repeat))

	assert.Equal(t, first.ID, repeat.ID, "repeat sighting must reuse the existing row")
	assert.EqualValues(t, 2, repeat.Occurrences)

	names, err := repo.List(ctx, entity.DomainDrug, 10)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "GLIVIC", names[0].RawName, "raw spelling follows the latest sighting")
	assert.InDelta(t, 0.68, names[0].BestScore, 1e-9, "best score keeps the maximum seen")
}

func TestUnmappedNameRepository_ListOrdersByOccurrences(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewUnmappedNameRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	rare := &repositories.UnmappedName{Domain: entity.DomainGene, RawName: "BTKK", NormalizedName: "btkk"}
	require.NoError(t, repo.Record(ctx, rare))

	for i := 0; i < 3; i++ {
		frequent := &repositories.UnmappedName{Domain: entity.DomainGene, RawName: "EGFRR", NormalizedName: "egfrr"}
		require.NoError(t, repo.Record(ctx, frequent))
	}

	names, err := repo.List(ctx, entity.DomainGene, 10)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "egfrr", names[0].NormalizedName)
	assert.EqualValues(t, 3, names[0].Occurrences)
	assert.Equal(t, "btkk", names[1].NormalizedName)
}

func TestUnmappedNameRepository_ListRespectsLimit(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewUnmappedNameRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	for _, raw := range []string{"alpha", "beta", "gamma"} {
		n := &repositories.UnmappedName{Domain: entity.DomainDrug, RawName: raw, NormalizedName: raw}
		require.NoError(t, repo.Record(ctx, n))
	}

	names, err := repo.List(ctx, entity.DomainDrug, 2)
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestUnmappedNameRepository_Delete(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewUnmappedNameRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	n := &repositories.UnmappedName{Domain: entity.DomainDrug, RawName: "Sprycell", NormalizedName: "sprycell"}
	require.NoError(t, repo.Record(ctx, n))

	require.NoError(t, repo.Delete(ctx, entity.DomainDrug, "sprycell"))

	names, err := repo.List(ctx, entity.DomainDrug, 10)
	require.NoError(t, err)
	assert.Empty(t, names)

	err = repo.Delete(ctx, entity.DomainDrug, "sprycell")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

//Personal.AI order the ending
