package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollbackMigration_RejectsNonPositiveSteps(t *testing.T) {
	t.Parallel()

	err := RollbackMigration("postgres://localhost/rxgene", "file://migrations", 0)
	assert.ErrorContains(t, err, "steps must be greater than 0")

	err = RollbackMigration("postgres://localhost/rxgene", "file://migrations", -3)
	assert.ErrorContains(t, err, "steps must be greater than 0")
}

func TestRunMigrations_UnknownSourceScheme(t *testing.T) {
	t.Parallel()

	err := RunMigrations("postgres://localhost/rxgene", "bogus://migrations")
	assert.ErrorContains(t, err, "failed to create migrate instance")
}

func TestMigrationStatus_UnknownSourceScheme(t *testing.T) {
	t.Parallel()

	_, _, err := MigrationStatus("postgres://localhost/rxgene", "bogus://migrations")
	assert.ErrorContains(t, err, "failed to create migrate instance")
}

func TestForceMigrationVersion_UnknownSourceScheme(t *testing.T) {
	t.Parallel()

	err := ForceMigrationVersion("postgres://localhost/rxgene", "bogus://migrations", 1)
	assert.ErrorContains(t, err, "failed to create migrate instance")
}

//Personal.AI order the ending
