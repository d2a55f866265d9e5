package records

import (
	"time"

	"cityexplorer/internal/explore"
)

// CityRecord is the unit of persistence: one aggregated city search
// denormalized with the identity of the user who saved it. Records are
// append-only; they are never updated, only deleted by their owner.
type CityRecord struct {
	ID        string `json:"id" bson:"-"`
	UserID    string `json:"userId" bson:"user_id"`
	UserName  string `json:"userName" bson:"user_name"`
	UserEmail string `json:"userEmail" bson:"user_email"`

	City        explore.City            `json:"city" bson:"city"`
	Weather     explore.WeatherSnapshot `json:"weather" bson:"weather"`
	CountryInfo explore.CountryInfo     `json:"countryInfo" bson:"country_info"`

	SearchedAt time.Time `json:"searchedAt" bson:"searched_at"`
}

// Pagination describes one page of a record listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Page is a listing result: the records plus pagination metadata.
type Page struct {
	Records    []CityRecord `json:"records"`
	Pagination Pagination   `json:"pagination"`
}

// CityCount is one entry of the top-cities ranking.
type CityCount struct {
	Name  string `json:"city" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// Stats aggregates counters across all saved records.
type Stats struct {
	TotalSearches int64       `json:"totalSearches"`
	MySearches    int64       `json:"mySearches"`
	TopCities     []CityCount `json:"topCities"`
}
