package migration

import (
	"context"
	"log/slog"
	"time"
)

// Ledger reads and appends migration run outcomes. Read failures degrade to
// "fetch everything" and write failures are logged only: the ledger never
// changes a run's already-determined outcome.
type Ledger struct {
	repo Repository
}

// NewLedger creates a ledger over the given repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// LastSuccessfulTimestamp returns the last_migrated_at of the most recent
// successful run, or nil when none exists or the store call fails.
func (l *Ledger) LastSuccessfulTimestamp(ctx context.Context) *time.Time {
	entry, err := l.repo.LastSuccessfulMigration(ctx)
	if err != nil {
		slog.Warn("Failed reading migration ledger, fetching everything", "err", err)
		return nil
	}
	if entry == nil {
		return nil
	}
	ts := entry.LastMigratedAt
	return &ts
}

// Record appends one ledger entry. Returns the stored entry or nil on
// failure; the failure is logged and never escalated.
func (l *Ledger) Record(ctx context.Context, entry LedgerEntry) *LedgerEntry {
	stored, err := l.repo.RecordMigration(ctx, entry)
	if err != nil {
		slog.Error("Failed recording migration outcome", "status", entry.Status, "err", err)
		return nil
	}
	slog.Info("Recorded migration outcome",
		"status", stored.Status,
		"records_processed", stored.RecordsProcessed,
		"last_migrated_at", stored.LastMigratedAt)
	return stored
}
