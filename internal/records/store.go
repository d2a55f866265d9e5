package records

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner is returned when a caller tries to delete a record
	// owned by someone else.
	ErrNotOwner = errors.New("record owned by another user")

	// ErrUnavailable is returned by every store operation while the
	// backing database has no active connection.
	ErrUnavailable = errors.New("record store unavailable")
)

// ValidationError reports a save rejected for a missing required
// field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// ListParams narrows and pages a record listing. Page is 1-based.
// An empty OwnerID lists everyone's records.
type ListParams struct {
	Page    int
	Limit   int
	OwnerID string
}

// Store is the contract both the Mongo store and the in-memory store
// satisfy. Listing order is searched_at descending with insertion
// order breaking ties. Delete enforces ownership.
type Store interface {
	Save(ctx context.Context, rec CityRecord) (CityRecord, error)
	List(ctx context.Context, params ListParams) ([]CityRecord, int64, error)
	ByID(ctx context.Context, id string) (CityRecord, error)
	Delete(ctx context.Context, id, ownerID string) error
	Stats(ctx context.Context, ownerID string) (Stats, error)
}
