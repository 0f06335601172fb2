package migration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akademy/akademy-api/pkg/config"
	"github.com/akademy/akademy-api/pkg/normalize"
	"github.com/akademy/akademy-api/pkg/strapi"
)

// SourceFetcher fetches the complete source collection, optionally bounded
// below by a timestamp. Implemented by strapi.Client.
type SourceFetcher interface {
	FetchAll(ctx context.Context, path string, since *time.Time) ([]strapi.Agreement, error)
}

// Reporter receives the structured outcome of a finished run. Delivery
// failures must be handled by the implementation; the pipeline ignores them.
type Reporter interface {
	Report(ctx context.Context, result *Result)
}

// Service wires the migration pipeline into one request-scoped operation:
// ledger read, incremental source fetch, concurrent lookup preload,
// map/match/insert, ledger write.
type Service struct {
	repo    Repository
	fetcher SourceFetcher
	ledger  *Ledger
	mapper  *Mapper
	cfg     config.MigrationConfig
	path    string

	// Single-flight guard. Concurrent runs would race the
	// duplicate-check-then-insert sequence, so only one runs at a time.
	mu sync.Mutex

	reporter Reporter
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithReporter registers a run-outcome reporter.
func WithReporter(r Reporter) ServiceOption {
	return func(s *Service) {
		s.reporter = r
	}
}

// WithServiceClock replaces the service clock, used by tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
		s.mapper = NewMapper(s.repo, NewDuplicateChecker(s.repo, s.cfg.DedupBatchSize), s.cfg, WithClock(now))
	}
}

// NewService creates the migration service.
func NewService(repo Repository, fetcher SourceFetcher, strapiCfg config.StrapiConfig, migCfg config.MigrationConfig, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		fetcher: fetcher,
		ledger:  NewLedger(repo),
		mapper:  NewMapper(repo, NewDuplicateChecker(repo, migCfg.DedupBatchSize), migCfg),
		cfg:     migCfg,
		path:    strapiCfg.AgreementsPath,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one migration run. Business failures are reported inside the
// returned Result; infrastructure failures return an error and no Result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if !s.mu.TryLock() {
		return nil, ErrMigrationInProgress
	}
	defer s.mu.Unlock()

	since := s.ledger.LastSuccessfulTimestamp(ctx)
	if since != nil {
		slog.Info("Starting incremental migration", "since", since.Format(time.RFC3339))
	} else {
		slog.Info("Starting full migration")
	}

	source, err := s.fetcher.FetchAll(ctx, s.path, since)
	if err != nil {
		return nil, err
	}

	headquarters, roles, err := s.preloadLookups(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.mapper.MapAndInsert(ctx, source, headquarters, roles)
	if err != nil {
		return nil, err
	}

	s.recordOutcome(ctx, source, result)

	if s.reporter != nil {
		s.reporter.Report(ctx, result)
	}
	return result, nil
}

// preloadLookups loads the two canonical name->identifier maps concurrently.
// Either failure aborts; no partial or stale map is substituted.
func (s *Service) preloadLookups(ctx context.Context) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	var (
		wg           sync.WaitGroup
		headquarters map[string]uuid.UUID
		roles        map[string]uuid.UUID
		hqErr        error
		roleErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, err := s.repo.ListHeadquarters(ctx)
		if err != nil {
			hqErr = err
			return
		}
		headquarters = lookupMap(rows, "headquarters")
	}()
	go func() {
		defer wg.Done()
		rows, err := s.repo.ListRoles(ctx)
		if err != nil {
			roleErr = err
			return
		}
		roles = lookupMap(rows, "roles")
	}()
	wg.Wait()

	if hqErr != nil {
		return nil, nil, hqErr
	}
	if roleErr != nil {
		return nil, nil, roleErr
	}
	return headquarters, roles, nil
}

// lookupMap keys rows by base-normalized name. Rows with blank names are
// skipped and logged, never inserted with an empty key.
func lookupMap(rows []LookupRow, table string) map[string]uuid.UUID {
	result := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		key := normalize.Normalize(row.Name)
		if key == "" {
			slog.Warn("Skipping lookup row with blank name", "table", table, "id", row.ID)
			continue
		}
		result[key] = row.ID
	}
	return result
}

// recordOutcome writes the ledger entry exactly once per completed run. An
// empty successful window only advances the high-water mark when the
// RecordEmptyRuns policy is on.
func (s *Service) recordOutcome(ctx context.Context, source []strapi.Agreement, result *Result) {
	now := s.now().UTC()

	if !result.Success {
		s.ledger.Record(ctx, LedgerEntry{
			LastMigratedAt:     now,
			Status:             LedgerStatusFailed,
			RecordsProcessed:   0,
			ErrorMessage:       result.Error,
			MigrationTimestamp: now,
		})
		return
	}

	if len(source) == 0 {
		if !s.cfg.RecordEmptyRuns {
			slog.Info("Empty incremental window, skipping ledger write")
			return
		}
		s.ledger.Record(ctx, LedgerEntry{
			LastMigratedAt:     now,
			Status:             LedgerStatusSuccess,
			RecordsProcessed:   0,
			MigrationTimestamp: now,
		})
		return
	}

	s.ledger.Record(ctx, LedgerEntry{
		LastMigratedAt:     latestSourceTimestamp(source, now),
		Status:             LedgerStatusSuccess,
		RecordsProcessed:   result.Statistics.SupabaseInserted,
		MigrationTimestamp: now,
	})
}

// latestSourceTimestamp finds the most recent createdAt/updatedAt across the
// fetched records; the next incremental run starts from there.
func latestSourceTimestamp(source []strapi.Agreement, fallback time.Time) time.Time {
	var latest time.Time
	for _, rec := range source {
		for _, value := range []string{rec.CreatedAt, rec.UpdatedAt} {
			if value == "" {
				continue
			}
			if ts, err := time.Parse(time.RFC3339Nano, value); err == nil && ts.After(latest) {
				latest = ts
			}
		}
	}
	if latest.IsZero() {
		return fallback
	}
	return latest.UTC()
}
