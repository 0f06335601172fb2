package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform account created from a signed agreement.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	RoleID    *uuid.UUID `json:"role_id,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AgreementInfo is the slice of an agreement row the user lifecycle needs.
type AgreementInfo struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	RoleID    uuid.UUID
	UserID    *uuid.UUID
}

// CreateUserParams carries the fields for a new user row.
type CreateUserParams struct {
	Email        string
	FirstName    string
	LastName     string
	RoleID       *uuid.UUID
	PasswordHash []byte
}
