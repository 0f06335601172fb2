package migration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("..", "..", "migrations", "akademy_db.sql")),
		postgres.WithDatabase("akademy_db"),
		postgres.WithUsername("akademy"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func seedPostgres(t *testing.T, pool *pgxpool.Pool) (hqID, seasonID, roleID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO headquarters (name) VALUES ('Managua') RETURNING id`).Scan(&hqID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO seasons (headquarter_id, name, active) VALUES ($1, '2026', true) RETURNING id`,
		hqID).Scan(&seasonID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO roles (name, level) VALUES ('student', 1) RETURNING id`).Scan(&roleID))
	return hqID, seasonID, roleID
}

func TestPostgresRepository_RoundTrip(t *testing.T) {
	pool := setupTestDatabase(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	hqID, seasonID, roleID := seedPostgres(t, pool)

	t.Run("lookup preload", func(t *testing.T) {
		headquarters, err := repo.ListHeadquarters(ctx)
		require.NoError(t, err)
		require.Len(t, headquarters, 1)
		assert.Equal(t, hqID, headquarters[0].ID)
		assert.Equal(t, "Managua", headquarters[0].Name)

		roles, err := repo.ListRoles(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, roleID, roles[0].ID)
	})

	t.Run("active seasons", func(t *testing.T) {
		seasons, err := repo.ActiveSeasons(ctx, []uuid.UUID{hqID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, seasons, 1)
		assert.Equal(t, seasonID, seasons[hqID])
	})

	t.Run("bulk insert and duplicate check", func(t *testing.T) {
		createdAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		updatedAt := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
		inserted, err := repo.InsertAgreements(ctx, []Agreement{
			{
				HeadquarterID: hqID, SeasonID: seasonID, RoleID: roleID,
				Status: StatusProspect, FirstName: "Ana", LastName: "López",
				Email: "Ana.Lopez@Example.test", DocumentNumber: "001-X",
				CreatedAt: createdAt, UpdatedAt: updatedAt,
			},
			{
				HeadquarterID: hqID, SeasonID: seasonID, RoleID: roleID,
				Status: StatusGraduated, FirstName: "Juan", LastName: "Pérez",
				Email: "juan@example.test", DocumentNumber: "002-Y",
				CreatedAt: createdAt, UpdatedAt: updatedAt,
			},
		})
		require.NoError(t, err)
		require.Len(t, inserted, 2)
		assert.NotEqual(t, uuid.Nil, inserted[0].ID)
		assert.Nil(t, inserted[0].UserID)
		// The source record's timestamps win over the schema defaults.
		assert.True(t, inserted[0].CreatedAt.Equal(createdAt))
		assert.True(t, inserted[0].UpdatedAt.Equal(updatedAt))

		byEmail, err := repo.AgreementsByEmails(ctx, []string{"ana.lopez@example.test"})
		require.NoError(t, err)
		require.Len(t, byEmail, 1)
		assert.Equal(t, "001-X", byEmail[0].DocumentNumber)

		byDoc, err := repo.AgreementsByDocuments(ctx, []string{"002-y"})
		require.NoError(t, err)
		require.Len(t, byDoc, 1)
		assert.Equal(t, "juan@example.test", byDoc[0].Email)
	})

	t.Run("ledger append and read back", func(t *testing.T) {
		entry, err := repo.LastSuccessfulMigration(ctx)
		require.NoError(t, err)
		assert.Nil(t, entry)

		lastMigrated := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
		stored, err := repo.RecordMigration(ctx, LedgerEntry{
			LastMigratedAt:     lastMigrated,
			Status:             LedgerStatusSuccess,
			RecordsProcessed:   2,
			MigrationTimestamp: time.Date(2026, 2, 1, 8, 0, 1, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, stored.ID)

		_, err = repo.RecordMigration(ctx, LedgerEntry{
			LastMigratedAt:     time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
			Status:             LedgerStatusFailed,
			ErrorMessage:       "insert failed",
			MigrationTimestamp: time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		latest, err := repo.LastSuccessfulMigration(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, LedgerStatusSuccess, latest.Status)
		assert.Equal(t, lastMigrated, latest.LastMigratedAt.UTC())
		assert.Equal(t, 2, latest.RecordsProcessed)
	})
}
