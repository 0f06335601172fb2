package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DuplicateChecker performs batched existence checks against the store by
// email and by document number. A source record matching on either field is
// excluded from insertion; no merge or update happens.
type DuplicateChecker struct {
	repo      Repository
	batchSize int
}

// NewDuplicateChecker creates a checker issuing at most batchSize values per
// store query.
func NewDuplicateChecker(repo Repository, batchSize int) *DuplicateChecker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &DuplicateChecker{
		repo:      repo,
		batchSize: batchSize,
	}
}

// Existing returns the store rows matching any of the given parallel
// email/document pairs, without double-reporting. Document numbers are only
// checked for records whose email did not already match. Comparison is
// case-insensitive on both fields.
func (c *DuplicateChecker) Existing(ctx context.Context, emails, documents []string) ([]ExistingAgreement, error) {
	if len(emails) != len(documents) {
		return nil, fmt.Errorf("emails and documents must be parallel arrays: %d vs %d", len(emails), len(documents))
	}

	matchedEmails := make(map[string]bool)
	var result []ExistingAgreement

	emailValues := lowerNonEmpty(emails)
	for _, chunk := range chunkStrings(emailValues, c.batchSize) {
		existing, err := c.repo.AgreementsByEmails(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed duplicate check by email: %w", err)
		}
		for _, e := range existing {
			key := strings.ToLower(e.Email)
			if matchedEmails[key] {
				continue
			}
			matchedEmails[key] = true
			result = append(result, e)
		}
	}

	// Only look up documents whose owning record was not matched by email.
	var docValues []string
	seenDocs := make(map[string]bool)
	for i, doc := range documents {
		doc = strings.ToLower(strings.TrimSpace(doc))
		if doc == "" || seenDocs[doc] {
			continue
		}
		if matchedEmails[strings.ToLower(strings.TrimSpace(emails[i]))] {
			continue
		}
		seenDocs[doc] = true
		docValues = append(docValues, doc)
	}

	reportedDocs := make(map[string]bool)
	for _, chunk := range chunkStrings(docValues, c.batchSize) {
		existing, err := c.repo.AgreementsByDocuments(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed duplicate check by document: %w", err)
		}
		for _, e := range existing {
			docKey := strings.ToLower(e.DocumentNumber)
			if reportedDocs[docKey] || matchedEmails[strings.ToLower(e.Email)] {
				continue
			}
			reportedDocs[docKey] = true
			result = append(result, e)
		}
	}

	slog.Debug("Duplicate check finished", "candidates", len(emails), "existing", len(result))
	return result, nil
}

// Filter drops candidates whose email or document number already exists in
// the store and returns the survivors.
func (c *DuplicateChecker) Filter(ctx context.Context, candidates []Agreement) ([]Agreement, error) {
	emails := make([]string, len(candidates))
	documents := make([]string, len(candidates))
	for i, a := range candidates {
		emails[i] = a.Email
		documents[i] = a.DocumentNumber
	}

	existing, err := c.Existing(ctx, emails, documents)
	if err != nil {
		return nil, err
	}

	existingEmails := make(map[string]bool, len(existing))
	existingDocs := make(map[string]bool, len(existing))
	for _, e := range existing {
		if e.Email != "" {
			existingEmails[strings.ToLower(e.Email)] = true
		}
		if e.DocumentNumber != "" {
			existingDocs[strings.ToLower(e.DocumentNumber)] = true
		}
	}

	var kept []Agreement
	for _, a := range candidates {
		if existingEmails[strings.ToLower(a.Email)] || existingDocs[strings.ToLower(a.DocumentNumber)] {
			slog.Info("Excluding agreement already present in store", "email", a.Email)
			continue
		}
		kept = append(kept, a)
	}
	return kept, nil
}

func lowerNonEmpty(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func chunkStrings(values []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
