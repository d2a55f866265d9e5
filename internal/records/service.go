package records

import (
	"context"
	"strings"
	"time"

	"cityexplorer/internal/auth"
)

const defaultPageSize = 50

// Service wraps a Store with the save/list/delete/stats semantics the
// API exposes: presence validation, owner stamping, and pagination
// metadata.
type Service struct {
	store Store
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Save persists an aggregated record on behalf of a principal. The
// record must carry a city name and country; everything else may be
// zero. Owner fields and the timestamp are stamped here - whatever the
// caller supplied for them is discarded.
func (s *Service) Save(ctx context.Context, rec CityRecord, principal auth.Principal) (CityRecord, error) {
	if strings.TrimSpace(rec.City.Name) == "" || strings.TrimSpace(rec.City.Country) == "" {
		return CityRecord{}, &ValidationError{Reason: "city name and country are required"}
	}

	rec.ID = ""
	rec.UserID = principal.ID
	rec.UserName = principal.Name
	rec.UserEmail = principal.Email
	rec.SearchedAt = time.Now().UTC()

	return s.store.Save(ctx, rec)
}

// ListQuery holds the caller-facing listing parameters. Mine restricts
// the listing to the principal's own records.
type ListQuery struct {
	Page  int
	Limit int
	Mine  bool
}

// List returns one page of records, most recent first, with accurate
// pagination metadata. A page beyond the last one yields an empty
// record list, never an error.
func (s *Service) List(ctx context.Context, q ListQuery, principal auth.Principal) (Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	params := ListParams{Page: page, Limit: limit}
	if q.Mine {
		params.OwnerID = principal.ID
	}

	recs, total, err := s.store.List(ctx, params)
	if err != nil {
		return Page{}, err
	}
	if recs == nil {
		recs = []CityRecord{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Page{
		Records: recs,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (CityRecord, error) {
	return s.store.ByID(ctx, id)
}

// Delete removes a record if and only if the principal owns it.
func (s *Service) Delete(ctx context.Context, id string, principal auth.Principal) error {
	return s.store.Delete(ctx, id, principal.ID)
}

// Stats returns overall counters plus the caller's own search count.
func (s *Service) Stats(ctx context.Context, principal auth.Principal) (Stats, error) {
	return s.store.Stats(ctx, principal.ID)
}
