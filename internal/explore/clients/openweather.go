package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"cityexplorer/internal/explore"
)

// OpenWeatherClient implements the explore.WeatherClient interface for
// OpenWeatherMap's current weather endpoint.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	iconURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		iconURL: "https://openweathermap.org/img/wn/%s@2x.png",
		client:  client,
		circuit: newBreaker("openweather"),
	}
}

// Current fetches the weather for a coordinate in metric units.
// Temperature and feels-like are rounded to the nearest whole degree.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) (explore.WeatherSnapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return explore.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Visibility int `json:"visibility"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return explore.WeatherSnapshot{}, fmt.Errorf("%w: decode weather response: %v", explore.ErrUpstream, err)
	}

	snapshot := explore.WeatherSnapshot{
		Temperature: int(math.Round(payload.Main.Temp)),
		FeelsLike:   int(math.Round(payload.Main.FeelsLike)),
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		Visibility:  payload.Visibility,
	}
	if len(payload.Weather) > 0 {
		snapshot.Description = payload.Weather[0].Description
		snapshot.Icon = fmt.Sprintf(c.iconURL, payload.Weather[0].Icon)
	}

	return snapshot, nil
}
