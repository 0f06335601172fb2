package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akademy/akademy-api/pkg/config"
	"github.com/akademy/akademy-api/pkg/normalize"
	"github.com/akademy/akademy-api/pkg/strapi"
)

// Mapper resolves source agreements against the canonical lookup maps,
// derives status and season, filters duplicates and performs the bulk
// insert. Records that fail resolution are logged and excluded, never
// inserted with missing foreign keys.
type Mapper struct {
	repo          Repository
	checker       *DuplicateChecker
	graduationAge time.Duration
	seasonPolicy  config.SeasonFailurePolicy
	studentRole   string
	now           func() time.Time
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithClock replaces the mapper's clock, used by tests.
func WithClock(now func() time.Time) MapperOption {
	return func(m *Mapper) {
		m.now = now
	}
}

// NewMapper creates a mapper with the pipeline's policy settings.
func NewMapper(repo Repository, checker *DuplicateChecker, cfg config.MigrationConfig, opts ...MapperOption) *Mapper {
	m := &Mapper{
		repo:          repo,
		checker:       checker,
		graduationAge: cfg.GraduationAgeDuration(),
		seasonPolicy:  cfg.SeasonFailurePolicy(),
		studentRole:   normalize.RoleLabel(cfg.StudentRoleName),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapAndInsert transforms the full source collection and inserts the
// surviving records. headquarters and roles map base-normalized canonical
// names to identifiers. Insert failures are absorbed into the result;
// store failures during season resolution or duplicate checking abort.
func (m *Mapper) MapAndInsert(ctx context.Context, source []strapi.Agreement, headquarters, roles map[string]uuid.UUID) (*Result, error) {
	runTime := m.now().UTC()
	studentRoleID := roles[m.studentRole]

	mergedHQ := mergeLabels(source, headquarters, normalize.HeadquarterLabel, sourceHeadquarter)
	mergedRoles := mergeLabels(source, roles, normalize.RoleLabel, sourceRole)

	candidates := make([]Agreement, 0, len(source))
	distinctHQ := make(map[uuid.UUID]bool)
	for _, rec := range source {
		hqID := resolveLabel(rec.Headquarter, mergedHQ, headquarters, normalize.HeadquarterLabel)
		roleID := resolveLabel(rec.Role, mergedRoles, roles, normalize.RoleLabel)

		if hqID == uuid.Nil {
			slog.Error("Unresolved headquarters label", "agreement_id", rec.ID, "label", rec.Headquarter)
		}
		if roleID == uuid.Nil {
			slog.Error("Unresolved role label", "agreement_id", rec.ID, "label", rec.Role)
		}
		if hqID != uuid.Nil {
			distinctHQ[hqID] = true
		}

		createdAt := parseTimestamp(rec.CreatedAt, runTime, rec.ID, "createdAt")
		updatedAt := parseTimestamp(rec.UpdatedAt, runTime, rec.ID, "updatedAt")

		candidates = append(candidates, Agreement{
			HeadquarterID:  hqID,
			RoleID:         roleID,
			UserID:         nil,
			Status:         m.deriveStatus(roleID, studentRoleID, createdAt, runTime),
			FirstName:      rec.FirstName,
			LastName:       rec.LastName,
			Email:          rec.Email,
			Phone:          rec.Phone,
			DocumentNumber: rec.DocumentNumber,
			Volunteering:   rec.Volunteering,
			Ethics:         rec.Ethics,
			Mailing:        rec.Mailing,
			AgeVerified:    rec.AgeVerified,
			SignatureRef:   rec.SignatureRef,
			CreatedAt:      createdAt,
			UpdatedAt:      updatedAt,
		})
	}

	seasons, err := m.repo.ActiveSeasons(ctx, keys(distinctHQ))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seasons: %w", err)
	}
	for i := range candidates {
		if candidates[i].HeadquarterID == uuid.Nil {
			continue
		}
		seasonID, ok := seasons[candidates[i].HeadquarterID]
		if !ok {
			if m.seasonPolicy == config.SeasonFailureStrict {
				return nil, NoActiveSeasonError{HeadquarterID: candidates[i].HeadquarterID}
			}
			slog.Error("No active season for headquarters, excluding record",
				"headquarter_id", candidates[i].HeadquarterID, "email", candidates[i].Email)
			continue
		}
		candidates[i].SeasonID = seasonID
	}

	transformed := len(candidates)

	eligible := make([]Agreement, 0, transformed)
	for _, a := range candidates {
		if a.HeadquarterID == uuid.Nil || a.RoleID == uuid.Nil || a.SeasonID == uuid.Nil {
			continue
		}
		eligible = append(eligible, a)
	}

	filtered, err := m.checker.Filter(ctx, eligible)
	if err != nil {
		return nil, err
	}

	stats := Statistics{
		StrapiCount:      len(source),
		TransformedCount: transformed,
		ExcludedCount:    transformed - len(filtered),
		ExcludedReason:   ExcludedReason,
	}

	inserted, err := m.repo.InsertAgreements(ctx, filtered)
	if err != nil {
		slog.Error("Failed inserting agreements", "count", len(filtered), "err", err)
		stats.SupabaseInserted = 0
		stats.Difference = stats.StrapiCount
		return &Result{
			Success:    false,
			Message:    "Migration failed during insert",
			Statistics: stats,
			Error:      err.Error(),
		}, nil
	}

	stats.SupabaseInserted = len(inserted)
	stats.Difference = stats.StrapiCount - stats.SupabaseInserted
	return &Result{
		Success:    true,
		Message:    fmt.Sprintf("Migrated %d of %d agreements", stats.SupabaseInserted, stats.StrapiCount),
		Statistics: stats,
		Data:       inserted,
	}, nil
}

func (m *Mapper) deriveStatus(roleID, studentRoleID uuid.UUID, createdAt, runTime time.Time) Status {
	if roleID != uuid.Nil && roleID == studentRoleID {
		if runTime.Sub(createdAt) > m.graduationAge {
			return StatusGraduated
		}
	}
	return StatusProspect
}

func sourceHeadquarter(rec strapi.Agreement) string { return rec.Headquarter }
func sourceRole(rec strapi.Agreement) string        { return rec.Role }

// mergeLabels builds the label->identifier map for the distinct source
// labels of one domain; labels that fail resolution map to uuid.Nil.
func mergeLabels(source []strapi.Agreement, canonical map[string]uuid.UUID, normalizer func(string) string, field func(strapi.Agreement) string) map[string]uuid.UUID {
	merged := make(map[string]uuid.UUID)
	for _, rec := range source {
		label := field(rec)
		if _, ok := merged[label]; ok {
			continue
		}
		merged[label] = canonical[normalizer(label)]
	}
	return merged
}

// resolveLabel looks the raw label up in the merged map and, on a miss,
// retries with a direct normalization pass against the canonical map.
func resolveLabel(label string, merged, canonical map[string]uuid.UUID, normalizer func(string) string) uuid.UUID {
	if id, ok := merged[label]; ok && id != uuid.Nil {
		return id
	}
	return canonical[normalizer(label)]
}

// parseTimestamp normalizes a CMS timestamp to UTC, falling back to the run
// time when the value does not parse.
func parseTimestamp(value string, fallback time.Time, agreementID int64, field string) time.Time {
	if value == "" {
		slog.Warn("Missing timestamp, using run time", "agreement_id", agreementID, "field", field)
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	slog.Warn("Unparseable timestamp, using run time", "agreement_id", agreementID, "field", field, "value", value)
	return fallback
}

func keys(set map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
