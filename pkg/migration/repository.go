package migration

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the relational-store operations the migration pipeline
// needs. The pipeline never updates or deletes target rows: agreements are
// insert-only and ledger entries are append-only.
type Repository interface {
	// ListHeadquarters returns every headquarters row ordered by name.
	ListHeadquarters(ctx context.Context) ([]LookupRow, error)
	// ListRoles returns every canonical role row ordered by name.
	ListRoles(ctx context.Context) ([]LookupRow, error)

	// AgreementsByEmails returns existing agreements whose email matches any
	// of the given values, case-insensitively. Callers pass lower-cased
	// values and bound batch sizes themselves.
	AgreementsByEmails(ctx context.Context, emails []string) ([]ExistingAgreement, error)
	// AgreementsByDocuments is the document-number counterpart of
	// AgreementsByEmails.
	AgreementsByDocuments(ctx context.Context, documents []string) ([]ExistingAgreement, error)

	// ActiveSeasons resolves the currently active season for each of the
	// given headquarters in one query. Headquarters without an active season
	// are absent from the returned map.
	ActiveSeasons(ctx context.Context, headquarterIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)

	// InsertAgreements bulk-inserts the given records in a single statement
	// and returns the inserted rows.
	InsertAgreements(ctx context.Context, agreements []Agreement) ([]Agreement, error)

	// LastSuccessfulMigration returns the most recent ledger entry with
	// status success, or nil when none exists.
	LastSuccessfulMigration(ctx context.Context) (*LedgerEntry, error)
	// RecordMigration appends one ledger entry and returns the stored row.
	RecordMigration(ctx context.Context, entry LedgerEntry) (*LedgerEntry, error)
}
