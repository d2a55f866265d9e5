package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"cityexplorer/internal/explore"
)

// GeoDBClient implements the explore.CityClient interface for the
// GeoDB Cities API on RapidAPI.
type GeoDBClient struct {
	apiKey  string
	apiHost string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewGeoDBClient(client *http.Client, apiKey, apiHost string) *GeoDBClient {
	return &GeoDBClient{
		apiKey:  apiKey,
		apiHost: apiHost,
		baseURL: "https://" + apiHost + "/v1/geo/cities",
		client:  client,
		circuit: newBreaker("geodb"),
	}
}

// geoDBCity is the raw city shape GeoDB returns. The display name is
// in "city"; detail lookups use "name".
type geoDBCity struct {
	ID          json.Number `json:"id"`
	City        string      `json:"city"`
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	CountryCode string      `json:"countryCode"`
	Region      string      `json:"region"`
	Population  int64       `json:"population"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
}

func (c geoDBCity) normalize() explore.City {
	name := c.City
	if name == "" {
		name = c.Name
	}
	return explore.City{
		ID:          c.ID.String(),
		Name:        name,
		Country:     c.Country,
		CountryCode: c.CountryCode,
		Region:      c.Region,
		Population:  c.Population,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}

// Search looks up cities by name prefix, ranked by descending
// population, at most ten results.
func (c *GeoDBClient) Search(ctx context.Context, query string) ([]explore.City, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("namePrefix", query)
		values.Set("limit", "10")
		values.Set("sort", "-population")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []geoDBCity `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", explore.ErrUpstream, err)
	}

	cities := make([]explore.City, 0, len(payload.Data))
	for _, raw := range payload.Data {
		cities = append(cities, raw.normalize())
	}
	return cities, nil
}

// ByID fetches full details for a single city.
func (c *GeoDBClient) ByID(ctx context.Context, id string) (explore.City, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(id))
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return explore.City{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data geoDBCity `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return explore.City{}, fmt.Errorf("%w: decode city response: %v", explore.ErrUpstream, err)
	}

	return payload.Data.normalize(), nil
}

func (c *GeoDBClient) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}
