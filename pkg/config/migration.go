package config

import (
	"fmt"
	"time"

	"github.com/sosodev/duration"
)

// SeasonFailurePolicy controls what happens when a record's headquarters has
// no active season: skip the record and keep going, or abort the whole run on
// the first miss.
type SeasonFailurePolicy string

const (
	SeasonFailureSkip   SeasonFailurePolicy = "skip"
	SeasonFailureStrict SeasonFailurePolicy = "strict"
)

// MigrationConfig holds the policy knobs for the Strapi migration pipeline.
type MigrationConfig struct {
	// Token is the super-credential the migration endpoint requires when it is
	// mounted outside the JWT-authenticated route group.
	Token string `env:"MIGRATION_TOKEN"`
	// GraduationAge is an ISO-8601 duration; student agreements older than this
	// at run time are migrated with status graduated instead of prospect.
	GraduationAge string `env:"MIGRATION_GRADUATION_AGE" env-default:"P365D"`
	// SeasonFailure selects skip-and-continue or strict-abort when a record's
	// headquarters has no active season.
	SeasonFailure string `env:"MIGRATION_SEASON_FAILURE" env-default:"skip"`
	// RecordEmptyRuns writes a success ledger entry even when the incremental
	// window fetched zero records, advancing the high-water mark.
	RecordEmptyRuns bool `env:"MIGRATION_RECORD_EMPTY_RUNS" env-default:"false"`
	// DedupBatchSize bounds the predicate size of the existence-check queries.
	DedupBatchSize int `env:"MIGRATION_DEDUP_BATCH_SIZE" env-default:"50"`
	// StudentRoleName is the canonical role whose agreements can graduate.
	StudentRoleName string `env:"MIGRATION_STUDENT_ROLE" env-default:"student"`
	// ReportEmail, when set, receives a migration-report notice after each run.
	ReportEmail string `env:"MIGRATION_REPORT_EMAIL"`
}

// GraduationAgeDuration parses GraduationAge, falling back to 365 days.
func (c MigrationConfig) GraduationAgeDuration() time.Duration {
	d, err := duration.Parse(c.GraduationAge)
	if err != nil {
		return 365 * 24 * time.Hour
	}
	return d.ToTimeDuration()
}

// SeasonFailurePolicy returns the parsed policy, defaulting to skip.
func (c MigrationConfig) SeasonFailurePolicy() SeasonFailurePolicy {
	if SeasonFailurePolicy(c.SeasonFailure) == SeasonFailureStrict {
		return SeasonFailureStrict
	}
	return SeasonFailureSkip
}

// Validate reports missing required settings.
func (c MigrationConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("MIGRATION_TOKEN is required")
	}
	if c.DedupBatchSize <= 0 {
		return fmt.Errorf("MIGRATION_DEDUP_BATCH_SIZE must be positive")
	}
	return nil
}
