package explore

// City is the normalized city shape produced by the city-search
// upstream. It is immutable once fetched and never persisted on its
// own, only as part of an aggregated record.
type City struct {
	ID          string  `json:"id,omitempty" bson:"-"`
	Name        string  `json:"name" bson:"name"`
	Country     string  `json:"country" bson:"country"`
	CountryCode string  `json:"countryCode" bson:"country_code"`
	Region      string  `json:"region" bson:"region"`
	Population  int64   `json:"population" bson:"population"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
}

// WeatherSnapshot is a point-in-time weather view for a coordinate.
// Temperature and FeelsLike are rounded to whole degrees Celsius.
type WeatherSnapshot struct {
	Temperature int     `json:"temperature" bson:"temperature"`
	FeelsLike   int     `json:"feelsLike" bson:"feels_like"`
	Humidity    int     `json:"humidity" bson:"humidity"`
	Pressure    int     `json:"pressure" bson:"pressure"`
	Description string  `json:"description" bson:"description"`
	Icon        string  `json:"icon" bson:"icon"`
	WindSpeed   float64 `json:"windSpeed" bson:"wind_speed"`
	Visibility  int     `json:"visibility" bson:"visibility"`
}

// Currency is a single currency of a country. All fields are empty
// when the upstream reports no currencies.
type Currency struct {
	Code   string `json:"code" bson:"code"`
	Name   string `json:"name" bson:"name"`
	Symbol string `json:"symbol" bson:"symbol"`
}

// CountryInfo is the normalized country shape. Languages preserve the
// upstream order; the first timezone is treated as canonical.
type CountryInfo struct {
	OfficialName string   `json:"officialName" bson:"official_name"`
	Capital      string   `json:"capital" bson:"capital"`
	Flag         string   `json:"flag" bson:"flag"`
	FlagAlt      string   `json:"flagAlt" bson:"flag_alt"`
	Currency     Currency `json:"currency" bson:"currency"`
	Languages    []string `json:"languages" bson:"languages"`
	Continent    string   `json:"continent" bson:"continent"`
	Timezones    []string `json:"timezones" bson:"timezones"`
}

// AggregatedCity bundles the three upstream views of one city. It is
// the shape handed to the presentation layer and, on save, to the
// record store.
type AggregatedCity struct {
	City        City            `json:"city"`
	Weather     WeatherSnapshot `json:"weather"`
	CountryInfo CountryInfo     `json:"countryInfo"`
}
