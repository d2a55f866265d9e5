package explore

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CityClient abstracts the city search upstream (GeoDB Cities).
type CityClient interface {
	Search(ctx context.Context, query string) ([]City, error)
	ByID(ctx context.Context, id string) (City, error)
}

// WeatherClient abstracts the weather-by-coordinate upstream.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (WeatherSnapshot, error)
}

// CountryClient abstracts the country-by-code upstream.
type CountryClient interface {
	ByCode(ctx context.Context, code string) (CountryInfo, error)
}

// Service orchestrates the upstream adapters and merges their results.
type Service struct {
	cities    CityClient
	weather   WeatherClient
	countries CountryClient
}

// NewService creates a new Service.
func NewService(cities CityClient, weather WeatherClient, countries CountryClient) *Service {
	return &Service{
		cities:    cities,
		weather:   weather,
		countries: countries,
	}
}

// SearchCities returns up to ten cities matching the name prefix,
// ranked by descending population.
func (s *Service) SearchCities(ctx context.Context, query string) ([]City, error) {
	return s.cities.Search(ctx, query)
}

// CityByID returns full details for a single city.
func (s *Service) CityByID(ctx context.Context, id string) (City, error) {
	return s.cities.ByID(ctx, id)
}

// Weather returns the current weather for a coordinate.
func (s *Service) Weather(ctx context.Context, lat, lon float64) (WeatherSnapshot, error) {
	return s.weather.Current(ctx, lat, lon)
}

// Country returns normalized country info for an ISO alpha-2 code.
func (s *Service) Country(ctx context.Context, code string) (CountryInfo, error) {
	return s.countries.ByCode(ctx, code)
}

// Aggregate issues the weather and country lookups concurrently and
// merges them with the city into one bundle. Both lookups must
// succeed; if either fails the whole aggregation fails with that
// adapter's error and no partial bundle is returned.
func (s *Service) Aggregate(ctx context.Context, city City) (AggregatedCity, error) {
	var (
		weather WeatherSnapshot
		country CountryInfo
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w, err := s.weather.Current(ctx, city.Latitude, city.Longitude)
		if err != nil {
			return err
		}
		weather = w
		return nil
	})

	g.Go(func() error {
		c, err := s.countries.ByCode(ctx, city.CountryCode)
		if err != nil {
			return err
		}
		country = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return AggregatedCity{}, err
	}

	return AggregatedCity{
		City:        city,
		Weather:     weather,
		CountryInfo: country,
	}, nil
}
