package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cityexplorer/internal/explore"
	"cityexplorer/internal/records"
)

func rec(name, ownerID string, at time.Time) records.CityRecord {
	return records.CityRecord{
		UserID:     ownerID,
		City:       explore.City{Name: name, Country: "Testland"},
		SearchedAt: at,
	}
}

func TestMemoryStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two records share a timestamp; the later insert must list first.
	first, _ := s.Save(ctx, rec("Oldest", "u1", base.Add(-time.Hour)))
	tieA, _ := s.Save(ctx, rec("TieA", "u1", base))
	tieB, _ := s.Save(ctx, rec("TieB", "u1", base))
	newest, _ := s.Save(ctx, rec("Newest", "u1", base.Add(time.Hour)))

	recs, total, err := s.List(ctx, records.ListParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected total 4, got %d", total)
	}

	wantOrder := []string{newest.ID, tieB.ID, tieA.ID, first.ID}
	for i, want := range wantOrder {
		if recs[i].ID != want {
			t.Errorf("position %d: expected %s (%s), got %s (%s)",
				i, want, "", recs[i].ID, recs[i].City.Name)
		}
	}
}

func TestMemoryStoreListOwnerFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.Save(ctx, rec("Mine", "u1", base.Add(time.Duration(i)*time.Minute)))
	}
	s.Save(ctx, rec("Theirs", "u2", base))

	recs, total, err := s.List(ctx, records.ListParams{Page: 1, Limit: 2, OwnerID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3 for owner filter, got %d", total)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records on page, got %d", len(recs))
	}

	// Page beyond range: empty list, not an error.
	recs, total, err = s.List(ctx, records.ListParams{Page: 9, Limit: 2, OwnerID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(recs) != 0 {
		t.Errorf("expected empty page with total 3, got %d records total %d", len(recs), total)
	}
}

func TestMemoryStoreDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	saved, _ := s.Save(ctx, rec("Paris", "owner", time.Now().UTC()))

	if err := s.Delete(ctx, saved.ID, "intruder"); !errors.Is(err, records.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := s.Delete(ctx, "missing-id", "owner"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, saved.ID, "owner"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := s.ByID(ctx, saved.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestMemoryStoreStatsTopCities(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Now().UTC()
	counts := map[string]int{
		"London": 3, "Paris": 2, "Berlin": 2, "Tokyo": 1, "Oslo": 1, "Lima": 1,
	}
	for name, n := range counts {
		owner := "u1"
		if name == "Lima" {
			owner = "u2"
		}
		for i := 0; i < n; i++ {
			s.Save(ctx, rec(name, owner, now))
		}
	}

	stats, err := s.Stats(ctx, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalSearches != 10 {
		t.Errorf("expected total 10, got %d", stats.TotalSearches)
	}
	if stats.MySearches != 1 {
		t.Errorf("expected 1 search for u2, got %d", stats.MySearches)
	}
	if len(stats.TopCities) != 5 {
		t.Fatalf("expected top 5 cities, got %d", len(stats.TopCities))
	}
	if stats.TopCities[0].Name != "London" || stats.TopCities[0].Count != 3 {
		t.Errorf("unexpected top city %+v", stats.TopCities[0])
	}
	// Count ties rank alphabetically.
	if stats.TopCities[1].Name != "Berlin" || stats.TopCities[2].Name != "Paris" {
		t.Errorf("unexpected tie order: %+v", stats.TopCities[1:3])
	}
}

func TestMemoryStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.SetAvailable(false)

	if _, err := s.Save(ctx, rec("London", "u1", time.Now())); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("save: expected ErrUnavailable, got %v", err)
	}
	if _, _, err := s.List(ctx, records.ListParams{Page: 1, Limit: 10}); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("list: expected ErrUnavailable, got %v", err)
	}
	if _, err := s.ByID(ctx, "x"); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("byID: expected ErrUnavailable, got %v", err)
	}
	if err := s.Delete(ctx, "x", "u1"); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("delete: expected ErrUnavailable, got %v", err)
	}
	if _, err := s.Stats(ctx, "u1"); !errors.Is(err, records.ErrUnavailable) {
		t.Errorf("stats: expected ErrUnavailable, got %v", err)
	}

	s.SetAvailable(true)
	if _, err := s.Save(ctx, rec("London", "u1", time.Now())); err != nil {
		t.Errorf("expected save to work again, got %v", err)
	}
}
