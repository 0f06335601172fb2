package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements UsersRepository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL users repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

func (r *PostgresRepository) GetAgreement(ctx context.Context, id uuid.UUID) (AgreementInfo, error) {
	query := `SELECT id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''), role_id, user_id
		FROM agreements
		WHERE id = $1`

	var info AgreementInfo
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&info.ID, &info.Email, &info.FirstName, &info.LastName, &info.RoleID, &info.UserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return AgreementInfo{}, ErrAgreementNotFound
	}
	if err != nil {
		return AgreementInfo{}, fmt.Errorf("failed to get agreement: %w", err)
	}
	return info, nil
}

const userColumns = `id, email, COALESCE(first_name, ''), COALESCE(last_name, ''), role_id, banned_at, created_at, updated_at`

func (r *PostgresRepository) scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.RoleID, &user.BannedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	query := `INSERT INTO users (email, password, first_name, last_name, role_id)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING ` + userColumns

	user, err := r.scanUser(r.pool.QueryRow(ctx, query,
		params.Email, params.PasswordHash, params.FirstName, params.LastName, params.RoleID,
	))
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) LinkAgreement(ctx context.Context, agreementID, userID uuid.UUID) error {
	query := `UPDATE agreements SET user_id = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, agreementID, userID)
	if err != nil {
		return fmt.Errorf("failed to link agreement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgreementNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error {
	query := `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET banned_at = now(), updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
