package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityexplorer/internal/records"
)

// MemoryStore is a concurrency-safe in-memory implementation of
// records.Store. It backs the test suite and local runs without a
// database, with the same id, ordering and ownership semantics as the
// Mongo store.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []records.CityRecord

	unavailable atomic.Bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetAvailable toggles the simulated connection state so callers can
// exercise the storage-unavailable path.
func (s *MemoryStore) SetAvailable(available bool) {
	s.unavailable.Store(!available)
}

// CheckHealth reports the simulated connection state.
func (s *MemoryStore) CheckHealth(ctx context.Context) error {
	if s.unavailable.Load() {
		return records.ErrUnavailable
	}
	return nil
}

// Save appends a record, assigning a fresh id.
func (s *MemoryStore) Save(ctx context.Context, rec records.CityRecord) (records.CityRecord, error) {
	if s.unavailable.Load() {
		return records.CityRecord{}, records.ErrUnavailable
	}

	rec.ID = primitive.NewObjectID().Hex()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)

	return rec, nil
}

// List returns one page sorted by searched-at descending; records with
// equal timestamps appear newest-inserted first, matching the Mongo
// store's `_id` tiebreak.
func (s *MemoryStore) List(ctx context.Context, params records.ListParams) ([]records.CityRecord, int64, error) {
	if s.unavailable.Load() {
		return nil, 0, records.ErrUnavailable
	}

	s.mu.RLock()
	matched := make([]records.CityRecord, 0, len(s.recs))
	for i := len(s.recs) - 1; i >= 0; i-- {
		rec := s.recs[i]
		if params.OwnerID != "" && rec.UserID != params.OwnerID {
			continue
		}
		matched = append(matched, rec)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SearchedAt.After(matched[j].SearchedAt)
	})

	total := int64(len(matched))

	start := (params.Page - 1) * params.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

// ByID returns a record by id.
func (s *MemoryStore) ByID(ctx context.Context, id string) (records.CityRecord, error) {
	if s.unavailable.Load() {
		return records.CityRecord{}, records.ErrUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return records.CityRecord{}, records.ErrNotFound
}

// Delete removes a record after verifying ownership.
func (s *MemoryStore) Delete(ctx context.Context, id, ownerID string) error {
	if s.unavailable.Load() {
		return records.ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.recs {
		if rec.ID != id {
			continue
		}
		if rec.UserID != ownerID {
			return records.ErrNotOwner
		}
		s.recs = append(s.recs[:i], s.recs[i+1:]...)
		return nil
	}
	return records.ErrNotFound
}

// Stats counts all records, the owner's records, and the five most
// saved city names. Ties rank alphabetically, matching the Mongo
// pipeline.
func (s *MemoryStore) Stats(ctx context.Context, ownerID string) (records.Stats, error) {
	if s.unavailable.Load() {
		return records.Stats{}, records.ErrUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	var mine int64
	for _, rec := range s.recs {
		counts[rec.City.Name]++
		if rec.UserID == ownerID {
			mine++
		}
	}

	top := make([]records.CityCount, 0, len(counts))
	for name, count := range counts {
		top = append(top, records.CityCount{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}

	return records.Stats{
		TotalSearches: int64(len(s.recs)),
		MySearches:    mine,
		TopCities:     top,
	}, nil
}
