package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL migration repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

func (r *PostgresRepository) listLookup(ctx context.Context, table string) ([]LookupRow, error) {
	query := fmt.Sprintf(`SELECT id, COALESCE(name, '') FROM %s ORDER BY name`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var result []LookupRow
	for rows.Next() {
		var row LookupRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", table, err)
	}
	return result, nil
}

// ListHeadquarters returns every headquarters row ordered by name
func (r *PostgresRepository) ListHeadquarters(ctx context.Context) ([]LookupRow, error) {
	return r.listLookup(ctx, "headquarters")
}

// ListRoles returns every role row ordered by name
func (r *PostgresRepository) ListRoles(ctx context.Context) ([]LookupRow, error) {
	return r.listLookup(ctx, "roles")
}

func (r *PostgresRepository) selectExisting(ctx context.Context, column string, values []string) ([]ExistingAgreement, error) {
	if len(values) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(email, ''), COALESCE(document_number, '')
		FROM agreements
		WHERE lower(%s) = ANY($1)
	`, column)

	rows, err := r.pool.Query(ctx, query, values)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing agreements by %s: %w", column, err)
	}
	defer rows.Close()

	var result []ExistingAgreement
	for rows.Next() {
		var existing ExistingAgreement
		if err := rows.Scan(&existing.Email, &existing.DocumentNumber); err != nil {
			return nil, fmt.Errorf("failed to scan existing agreement: %w", err)
		}
		result = append(result, existing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read existing agreements: %w", err)
	}
	return result, nil
}

// AgreementsByEmails returns existing agreements matching any of the given
// lower-cased emails
func (r *PostgresRepository) AgreementsByEmails(ctx context.Context, emails []string) ([]ExistingAgreement, error) {
	return r.selectExisting(ctx, "email", emails)
}

// AgreementsByDocuments returns existing agreements matching any of the given
// lower-cased document numbers
func (r *PostgresRepository) AgreementsByDocuments(ctx context.Context, documents []string) ([]ExistingAgreement, error) {
	return r.selectExisting(ctx, "document_number", documents)
}

// ActiveSeasons resolves the active season of each headquarters in one query
func (r *PostgresRepository) ActiveSeasons(ctx context.Context, headquarterIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	seasons := make(map[uuid.UUID]uuid.UUID)
	if len(headquarterIDs) == 0 {
		return seasons, nil
	}

	query := `
		SELECT headquarter_id, id
		FROM seasons
		WHERE active = true AND headquarter_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, headquarterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active seasons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var headquarterID, seasonID uuid.UUID
		if err := rows.Scan(&headquarterID, &seasonID); err != nil {
			return nil, fmt.Errorf("failed to scan season row: %w", err)
		}
		seasons[headquarterID] = seasonID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read season rows: %w", err)
	}
	return seasons, nil
}

// InsertAgreements bulk-inserts the given records in a single statement and
// returns the inserted rows
func (r *PostgresRepository) InsertAgreements(ctx context.Context, agreements []Agreement) ([]Agreement, error) {
	if len(agreements) == 0 {
		return nil, nil
	}

	const columns = 17
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO agreements (
			headquarter_id, season_id, role_id, user_id, status,
			first_name, last_name, email, phone, document_number,
			volunteering_agreement, ethics_agreement, mailing_agreement,
			age_verification, signature_data, created_at, updated_at
		) VALUES `)

	args := make([]interface{}, 0, len(agreements)*columns)
	for i, a := range agreements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < columns; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*columns+j+1)
		}
		sb.WriteString(")")
		args = append(args,
			a.HeadquarterID, a.SeasonID, a.RoleID, a.UserID, a.Status,
			a.FirstName, a.LastName, a.Email, a.Phone, a.DocumentNumber,
			a.Volunteering, a.Ethics, a.Mailing,
			a.AgeVerified, a.SignatureRef, a.CreatedAt, a.UpdatedAt,
		)
	}
	sb.WriteString(`
		RETURNING
			id, headquarter_id, season_id, role_id, user_id, status,
			first_name, last_name, email, phone, document_number,
			volunteering_agreement, ethics_agreement, mailing_agreement,
			age_verification, signature_data, created_at, updated_at`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert agreements: %w", err)
	}
	defer rows.Close()

	var inserted []Agreement
	for rows.Next() {
		var a Agreement
		if err := rows.Scan(
			&a.ID, &a.HeadquarterID, &a.SeasonID, &a.RoleID, &a.UserID, &a.Status,
			&a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.DocumentNumber,
			&a.Volunteering, &a.Ethics, &a.Mailing,
			&a.AgeVerified, &a.SignatureRef, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inserted agreement: %w", err)
		}
		inserted = append(inserted, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inserted agreements: %w", err)
	}
	return inserted, nil
}

// LastSuccessfulMigration returns the most recent successful ledger entry
func (r *PostgresRepository) LastSuccessfulMigration(ctx context.Context) (*LedgerEntry, error) {
	query := `
		SELECT id, last_migrated_at, status, records_processed,
			COALESCE(error_message, ''), migration_timestamp
		FROM strapi_migrations
		WHERE status = $1
		ORDER BY migration_timestamp DESC
		LIMIT 1
	`

	entry := &LedgerEntry{}
	err := r.pool.QueryRow(ctx, query, LedgerStatusSuccess).Scan(
		&entry.ID,
		&entry.LastMigratedAt,
		&entry.Status,
		&entry.RecordsProcessed,
		&entry.ErrorMessage,
		&entry.MigrationTimestamp,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last successful migration: %w", err)
	}
	return entry, nil
}

// RecordMigration appends one ledger entry
func (r *PostgresRepository) RecordMigration(ctx context.Context, entry LedgerEntry) (*LedgerEntry, error) {
	query := `
		INSERT INTO strapi_migrations (
			last_migrated_at, status, records_processed, error_message, migration_timestamp
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5
		) RETURNING
			id, last_migrated_at, status, records_processed,
			COALESCE(error_message, ''), migration_timestamp
	`

	stored := &LedgerEntry{}
	err := r.pool.QueryRow(ctx, query,
		entry.LastMigratedAt,
		entry.Status,
		entry.RecordsProcessed,
		entry.ErrorMessage,
		entry.MigrationTimestamp,
	).Scan(
		&stored.ID,
		&stored.LastMigratedAt,
		&stored.Status,
		&stored.RecordsProcessed,
		&stored.ErrorMessage,
		&stored.MigrationTimestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record migration: %w", err)
	}
	return stored, nil
}
