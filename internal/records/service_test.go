package records_test

import (
	"context"
	"errors"
	"testing"

	"cityexplorer/internal/auth"
	"cityexplorer/internal/explore"
	"cityexplorer/internal/records"
	"cityexplorer/internal/store"
)

var alice = auth.Principal{ID: "alice-id", Name: "Alice", Email: "alice@example.com"}

func newService() *records.Service {
	return records.NewService(store.NewMemoryStore())
}

func TestSaveRejectsMissingCityIdentity(t *testing.T) {
	svc := newService()

	cases := []explore.City{
		{},
		{Name: "Paris"},
		{Country: "France"},
		{Name: "   ", Country: "France"},
	}
	for _, city := range cases {
		_, err := svc.Save(context.Background(), records.CityRecord{City: city}, alice)
		var vErr *records.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("city %+v: expected ValidationError, got %v", city, err)
		}
	}
}

func TestSaveStampsOwnerAndDefaults(t *testing.T) {
	svc := newService()

	// Caller-supplied owner fields and timestamp must be discarded;
	// missing weather/country data must not reject the save.
	rec := records.CityRecord{
		UserID:    "spoofed",
		UserName:  "Mallory",
		UserEmail: "mallory@example.com",
		City:      explore.City{Name: "Paris", Country: "France"},
	}

	saved, err := svc.Save(context.Background(), rec, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.ID == "" {
		t.Error("expected a generated id")
	}
	if saved.UserID != alice.ID || saved.UserName != alice.Name || saved.UserEmail != alice.Email {
		t.Errorf("owner not stamped from principal: %+v", saved)
	}
	if saved.SearchedAt.IsZero() {
		t.Error("expected a server-side timestamp")
	}
	if saved.Weather != (explore.WeatherSnapshot{}) {
		t.Errorf("expected zeroed weather, got %+v", saved.Weather)
	}
	if saved.CountryInfo.Capital != "" || saved.CountryInfo.Currency.Code != "" {
		t.Errorf("expected zeroed country info, got %+v", saved.CountryInfo)
	}
}

func TestListPaginationMetadata(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Save(ctx, records.CityRecord{
			City: explore.City{Name: "London", Country: "United Kingdom"},
		}, alice); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	page, err := svc.List(ctx, records.ListQuery{Page: 1, Limit: 2}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Total != 5 || page.Pagination.Pages != 3 {
		t.Errorf("expected total 5 pages 3, got %+v", page.Pagination)
	}
	if len(page.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(page.Records))
	}

	// Last partial page.
	page, err = svc.List(ctx, records.ListQuery{Page: 3, Limit: 2}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 1 {
		t.Errorf("expected 1 record on last page, got %d", len(page.Records))
	}

	// Beyond range: empty records, accurate metadata, no error.
	page, err = svc.List(ctx, records.ListQuery{Page: 42, Limit: 2}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 0 {
		t.Errorf("expected empty page, got %d records", len(page.Records))
	}
	if page.Pagination.Total != 5 || page.Pagination.Pages != 3 || page.Pagination.Page != 42 {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}
}

func TestListEmptyStore(t *testing.T) {
	svc := newService()

	page, err := svc.List(context.Background(), records.ListQuery{Page: 1, Limit: 10}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Total != 0 || page.Pagination.Pages != 0 {
		t.Errorf("expected total 0 pages 0, got %+v", page.Pagination)
	}
	if page.Records == nil || len(page.Records) != 0 {
		t.Errorf("expected empty non-nil record list, got %#v", page.Records)
	}
}

func TestListNormalizesPageAndLimit(t *testing.T) {
	svc := newService()

	page, err := svc.List(context.Background(), records.ListQuery{Page: 0, Limit: 0}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 50 {
		t.Errorf("expected page 1 limit 50 defaults, got %+v", page.Pagination)
	}
}

func TestListMineFilter(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	bob := auth.Principal{ID: "bob-id", Name: "Bob", Email: "bob@example.com"}

	svc.Save(ctx, records.CityRecord{City: explore.City{Name: "Paris", Country: "France"}}, alice)
	svc.Save(ctx, records.CityRecord{City: explore.City{Name: "Oslo", Country: "Norway"}}, bob)

	page, err := svc.List(ctx, records.ListQuery{Page: 1, Limit: 10, Mine: true}, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Total != 1 || len(page.Records) != 1 {
		t.Fatalf("expected only alice's record, got %+v", page.Pagination)
	}
	if page.Records[0].UserID != alice.ID {
		t.Errorf("unexpected owner %q", page.Records[0].UserID)
	}

	// Without the filter everyone's records are visible.
	page, _ = svc.List(ctx, records.ListQuery{Page: 1, Limit: 10}, alice)
	if page.Pagination.Total != 2 {
		t.Errorf("expected 2 records without filter, got %+v", page.Pagination)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	bob := auth.Principal{ID: "bob-id"}

	saved, err := svc.Save(ctx, records.CityRecord{
		City: explore.City{Name: "Paris", Country: "France"},
	}, alice)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := svc.Delete(ctx, saved.ID, bob); !errors.Is(err, records.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(ctx, saved.ID, alice); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID, alice); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStatsCounts(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	bob := auth.Principal{ID: "bob-id"}

	svc.Save(ctx, records.CityRecord{City: explore.City{Name: "London", Country: "UK"}}, alice)
	svc.Save(ctx, records.CityRecord{City: explore.City{Name: "London", Country: "UK"}}, bob)
	svc.Save(ctx, records.CityRecord{City: explore.City{Name: "Paris", Country: "France"}}, alice)

	stats, err := svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalSearches != 3 || stats.MySearches != 2 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if len(stats.TopCities) == 0 || stats.TopCities[0].Name != "London" || stats.TopCities[0].Count != 2 {
		t.Errorf("unexpected top cities %+v", stats.TopCities)
	}
}
