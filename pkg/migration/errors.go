package migration

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrMigrationInProgress is returned when a run is requested while
	// another run holds the single-flight guard.
	ErrMigrationInProgress = errors.New("migration already in progress")
)

// NoActiveSeasonError is raised under the strict season policy when a
// resolved headquarters has no active season.
type NoActiveSeasonError struct {
	HeadquarterID uuid.UUID
}

func (e NoActiveSeasonError) Error() string {
	return fmt.Sprintf("no active season for headquarters %s", e.HeadquarterID)
}
