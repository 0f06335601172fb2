package migration

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage. It backs
// the unit tests and the inmem demo wiring; error fields let tests inject
// store failures per operation.
type InMemoryRepository struct {
	mu           sync.RWMutex
	headquarters []LookupRow
	roles        []LookupRow
	seasons      map[uuid.UUID]uuid.UUID
	agreements   []Agreement
	ledger       []LedgerEntry

	ListHeadquartersErr error
	ListRolesErr        error
	ExistingErr         error
	ActiveSeasonsErr    error
	InsertErr           error
	LedgerReadErr       error
	LedgerWriteErr      error

	// QueryCounts tracks how many store calls each operation received.
	QueryCounts map[string]int
}

// NewInMemoryRepository creates a new in-memory migration repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		seasons:     make(map[uuid.UUID]uuid.UUID),
		QueryCounts: make(map[string]int),
	}
}

// AddHeadquarter seeds a headquarters row and returns its generated ID.
func (r *InMemoryRepository) AddHeadquarter(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.headquarters = append(r.headquarters, LookupRow{ID: id, Name: name})
	return id
}

// AddRole seeds a role row and returns its generated ID.
func (r *InMemoryRepository) AddRole(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.roles = append(r.roles, LookupRow{ID: id, Name: name})
	return id
}

// AddSeason seeds the active season for a headquarters and returns its ID.
func (r *InMemoryRepository) AddSeason(headquarterID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.seasons[headquarterID] = id
	return id
}

// SeedAgreement pre-populates an existing agreement row for duplicate checks.
func (r *InMemoryRepository) SeedAgreement(email, documentNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agreements = append(r.agreements, Agreement{
		ID:             uuid.New(),
		Email:          email,
		DocumentNumber: documentNumber,
	})
}

// Agreements returns a copy of all stored agreements.
func (r *InMemoryRepository) Agreements() []Agreement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Agreement, len(r.agreements))
	copy(out, r.agreements)
	return out
}

// Ledger returns a copy of all ledger entries.
func (r *InMemoryRepository) Ledger() []LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LedgerEntry, len(r.ledger))
	copy(out, r.ledger)
	return out
}

func (r *InMemoryRepository) count(op string) {
	r.QueryCounts[op]++
}

// ListHeadquarters returns the seeded headquarters ordered by name
func (r *InMemoryRepository) ListHeadquarters(ctx context.Context) ([]LookupRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("ListHeadquarters")
	if r.ListHeadquartersErr != nil {
		return nil, r.ListHeadquartersErr
	}
	return sortedLookup(r.headquarters), nil
}

// ListRoles returns the seeded roles ordered by name
func (r *InMemoryRepository) ListRoles(ctx context.Context) ([]LookupRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("ListRoles")
	if r.ListRolesErr != nil {
		return nil, r.ListRolesErr
	}
	return sortedLookup(r.roles), nil
}

func sortedLookup(rows []LookupRow) []LookupRow {
	out := make([]LookupRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AgreementsByEmails matches stored agreements by lower-cased email
func (r *InMemoryRepository) AgreementsByEmails(ctx context.Context, emails []string) ([]ExistingAgreement, error) {
	return r.matchExisting("AgreementsByEmails", emails, func(a Agreement) string {
		return strings.ToLower(a.Email)
	})
}

// AgreementsByDocuments matches stored agreements by lower-cased document number
func (r *InMemoryRepository) AgreementsByDocuments(ctx context.Context, documents []string) ([]ExistingAgreement, error) {
	return r.matchExisting("AgreementsByDocuments", documents, func(a Agreement) string {
		return strings.ToLower(a.DocumentNumber)
	})
}

func (r *InMemoryRepository) matchExisting(op string, values []string, key func(Agreement) string) ([]ExistingAgreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count(op)
	if r.ExistingErr != nil {
		return nil, r.ExistingErr
	}

	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}

	var result []ExistingAgreement
	for _, a := range r.agreements {
		if wanted[key(a)] {
			result = append(result, ExistingAgreement{Email: a.Email, DocumentNumber: a.DocumentNumber})
		}
	}
	return result, nil
}

// ActiveSeasons resolves seeded seasons for the given headquarters
func (r *InMemoryRepository) ActiveSeasons(ctx context.Context, headquarterIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("ActiveSeasons")
	if r.ActiveSeasonsErr != nil {
		return nil, r.ActiveSeasonsErr
	}

	result := make(map[uuid.UUID]uuid.UUID)
	for _, id := range headquarterIDs {
		if seasonID, ok := r.seasons[id]; ok {
			result[id] = seasonID
		}
	}
	return result, nil
}

// InsertAgreements stores the given records and returns them with IDs
func (r *InMemoryRepository) InsertAgreements(ctx context.Context, agreements []Agreement) ([]Agreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("InsertAgreements")
	if r.InsertErr != nil {
		return nil, r.InsertErr
	}

	inserted := make([]Agreement, 0, len(agreements))
	for _, a := range agreements {
		a.ID = uuid.New()
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = time.Now().UTC()
		}
		r.agreements = append(r.agreements, a)
		inserted = append(inserted, a)
	}
	return inserted, nil
}

// LastSuccessfulMigration returns the most recent success ledger entry
func (r *InMemoryRepository) LastSuccessfulMigration(ctx context.Context) (*LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("LastSuccessfulMigration")
	if r.LedgerReadErr != nil {
		return nil, r.LedgerReadErr
	}

	var latest *LedgerEntry
	for i := range r.ledger {
		entry := r.ledger[i]
		if entry.Status != LedgerStatusSuccess {
			continue
		}
		if latest == nil || entry.MigrationTimestamp.After(latest.MigrationTimestamp) {
			latest = &entry
		}
	}
	return latest, nil
}

// RecordMigration appends one ledger entry
func (r *InMemoryRepository) RecordMigration(ctx context.Context, entry LedgerEntry) (*LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count("RecordMigration")
	if r.LedgerWriteErr != nil {
		return nil, r.LedgerWriteErr
	}

	entry.ID = uuid.New()
	r.ledger = append(r.ledger, entry)
	return &entry, nil
}
