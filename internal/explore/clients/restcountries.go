package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/sony/gobreaker"

	"cityexplorer/internal/explore"
)

// RestCountriesClient implements the explore.CountryClient interface
// for the RestCountries API.
type RestCountriesClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewRestCountriesClient(client *http.Client) *RestCountriesClient {
	return &RestCountriesClient{
		baseURL: "https://restcountries.com/v3.1",
		client:  client,
		circuit: newBreaker("restcountries"),
	}
}

// restCountry is the raw country shape. The alpha lookup may return
// either this object directly or a one-element list of it.
type restCountry struct {
	Name struct {
		Official string `json:"official"`
		Common   string `json:"common"`
	} `json:"name"`
	Capital []string `json:"capital"`
	Flags   struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
		Alt string `json:"alt"`
	} `json:"flags"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Languages  map[string]string `json:"languages"`
	Continents []string          `json:"continents"`
	Timezones  []string          `json:"timezones"`
}

// ByCode fetches country info by ISO alpha-2 code and normalizes the
// dynamic upstream shape into a fixed CountryInfo.
func (c *RestCountriesClient) ByCode(ctx context.Context, code string) (explore.CountryInfo, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/alpha/%s", c.baseURL, url.PathEscape(code))
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return explore.CountryInfo{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return explore.CountryInfo{}, fmt.Errorf("%w: read country response: %v", explore.ErrUpstream, err)
	}

	country, err := decodeCountry(body)
	if err != nil {
		return explore.CountryInfo{}, err
	}

	return normalizeCountry(country), nil
}

// decodeCountry accepts either a bare country object or a one-element
// list containing it.
func decodeCountry(body []byte) (restCountry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []restCountry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return restCountry{}, fmt.Errorf("%w: decode country list: %v", explore.ErrUpstream, err)
		}
		if len(list) == 0 {
			return restCountry{}, fmt.Errorf("%w: empty country list", explore.ErrUpstream)
		}
		return list[0], nil
	}

	var single restCountry
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return restCountry{}, fmt.Errorf("%w: decode country: %v", explore.ErrUpstream, err)
	}
	return single, nil
}

func normalizeCountry(country restCountry) explore.CountryInfo {
	info := explore.CountryInfo{
		OfficialName: country.Name.Official,
		Capital:      "N/A",
		Continent:    "N/A",
		Timezones:    country.Timezones,
	}

	if len(country.Capital) > 0 {
		info.Capital = country.Capital[0]
	}
	if len(country.Continents) > 0 {
		info.Continent = country.Continents[0]
	}

	info.Flag = country.Flags.SVG
	if info.Flag == "" {
		info.Flag = country.Flags.PNG
	}
	info.FlagAlt = country.Flags.Alt
	if info.FlagAlt == "" {
		info.FlagAlt = fmt.Sprintf("Flag of %s", country.Name.Common)
	}

	// A country may list several currencies; only one is kept. Codes
	// are sorted first so the pick is stable (Go map order is not).
	if len(country.Currencies) > 0 {
		codes := make([]string, 0, len(country.Currencies))
		for code := range country.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		first := codes[0]
		info.Currency = explore.Currency{
			Code:   first,
			Name:   country.Currencies[first].Name,
			Symbol: country.Currencies[first].Symbol,
		}
	}

	if len(country.Languages) > 0 {
		langCodes := make([]string, 0, len(country.Languages))
		for code := range country.Languages {
			langCodes = append(langCodes, code)
		}
		sort.Strings(langCodes)
		for _, code := range langCodes {
			info.Languages = append(info.Languages, country.Languages[code])
		}
	}

	return info
}
