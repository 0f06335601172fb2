package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfigConversions(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Database: "akademy_test",
		User:     "akademy",
		Password: "pwd",
		Schema:   "public",
	}

	url := cfg.ToDatabaseURL()
	assert.Contains(t, url, "db.internal:5433/akademy_test")

	dbCfg := cfg.ToDbConfig()
	assert.Equal(t, "db.internal", dbCfg.Host)
	assert.Equal(t, "akademy_test", dbCfg.Database)
}

func TestStrapiConfigValidate(t *testing.T) {
	cfg := StrapiConfig{BaseURL: "https://cms.example.test", Token: "token"}
	require.NoError(t, cfg.Validate())

	assert.Error(t, StrapiConfig{Token: "token"}.Validate())
	assert.Error(t, StrapiConfig{BaseURL: "https://cms.example.test"}.Validate())
}

func TestMigrationConfigPolicies(t *testing.T) {
	cfg := MigrationConfig{GraduationAge: "P365D"}
	assert.Equal(t, 365*24*time.Hour, cfg.GraduationAgeDuration())

	assert.Equal(t, 30*24*time.Hour, MigrationConfig{GraduationAge: "P30D"}.GraduationAgeDuration())
	// Garbage falls back to the default window.
	assert.Equal(t, 365*24*time.Hour, MigrationConfig{GraduationAge: "bogus"}.GraduationAgeDuration())

	assert.Equal(t, SeasonFailureSkip, MigrationConfig{}.SeasonFailurePolicy())
	assert.Equal(t, SeasonFailureSkip, MigrationConfig{SeasonFailure: "skip"}.SeasonFailurePolicy())
	assert.Equal(t, SeasonFailureStrict, MigrationConfig{SeasonFailure: "strict"}.SeasonFailurePolicy())

	require.NoError(t, MigrationConfig{Token: "secret", DedupBatchSize: 50}.Validate())
	assert.Error(t, MigrationConfig{DedupBatchSize: 50}.Validate())
	assert.Error(t, MigrationConfig{Token: "secret"}.Validate())
}
