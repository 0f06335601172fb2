package users

import (
	"context"

	"github.com/google/uuid"
)

// UsersRepository abstracts persistence for the user lifecycle.
type UsersRepository interface {
	// GetAgreement returns the agreement row or ErrAgreementNotFound.
	GetAgreement(ctx context.Context, id uuid.UUID) (AgreementInfo, error)

	// GetUserByEmail returns the user with the given email (matched
	// case-insensitively) or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// GetUserByID returns the user or ErrUserNotFound.
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)

	// CreateUser inserts a new user row and returns it.
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)

	// LinkAgreement sets agreements.user_id for the given agreement.
	LinkAgreement(ctx context.Context, agreementID, userID uuid.UUID) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error

	// DeactivateUser stamps banned_at for the given user.
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
}
