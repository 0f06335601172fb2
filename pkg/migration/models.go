package migration

import (
	"time"

	"github.com/google/uuid"
)

// Status is the membership status derived for a migrated agreement.
type Status string

const (
	StatusProspect  Status = "prospect"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusGraduated Status = "graduated"
)

// Ledger entry statuses.
const (
	LedgerStatusSuccess = "success"
	LedgerStatusFailed  = "failed"
)

// ExcludedReason is the fixed human-readable reason attached to run
// statistics for records dropped before insertion.
const ExcludedReason = "unresolved headquarters/role/season or already present in store"

// Agreement is the target record destined for the agreements table.
// HeadquarterID, SeasonID and RoleID must all be resolved before the record
// is eligible for insertion; UserID stays nil until the separate
// user-creation flow claims the agreement.
type Agreement struct {
	ID             uuid.UUID  `json:"id,omitempty"`
	HeadquarterID  uuid.UUID  `json:"headquarter_id"`
	SeasonID       uuid.UUID  `json:"season_id"`
	RoleID         uuid.UUID  `json:"role_id"`
	UserID         *uuid.UUID `json:"user_id"`
	Status         Status     `json:"status"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	DocumentNumber string     `json:"document_number"`
	Volunteering   bool       `json:"volunteering_agreement"`
	Ethics         bool       `json:"ethics_agreement"`
	Mailing        bool       `json:"mailing_agreement"`
	AgeVerified    bool       `json:"age_verification"`
	SignatureRef   string     `json:"signature_data"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LookupRow is one canonical row of the headquarters or roles table.
type LookupRow struct {
	ID   uuid.UUID
	Name string
}

// ExistingAgreement identifies a store row matched by the duplicate check.
type ExistingAgreement struct {
	Email          string
	DocumentNumber string
}

// LedgerEntry is one append-only row of the strapi_migrations table.
type LedgerEntry struct {
	ID                 uuid.UUID
	LastMigratedAt     time.Time
	Status             string
	RecordsProcessed   int
	ErrorMessage       string
	MigrationTimestamp time.Time
}

// Statistics is the per-run summary reported to the caller.
type Statistics struct {
	StrapiCount      int    `json:"strapiCount"`
	SupabaseInserted int    `json:"supabaseInserted"`
	TransformedCount int    `json:"transformedCount"`
	ExcludedCount    int    `json:"excludedCount"`
	ExcludedReason   string `json:"excludedReason"`
	Difference       int    `json:"difference"`
}

// Result is the structured outcome of one migration run. Business failures
// (insert errors) are absorbed here rather than raised; infrastructure
// failures never produce a Result.
type Result struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Statistics Statistics  `json:"statistics"`
	Data       []Agreement `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}
