package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// WeatherClient resolves place names with Open-Meteo geocoding and reads the
// current conditions from the Open-Meteo forecast API. No key is needed.
type WeatherClient struct {
	geocodingURL string
	forecastURL  string
	client       *http.Client
	log          *log.Logger
}

func NewWeatherClient(geocodingURL, forecastURL string, logger *log.Logger) *WeatherClient {
	if geocodingURL == "" {
		geocodingURL = defaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = defaultForecastURL
	}
	return &WeatherClient{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		client:       newHTTPClient(),
		log:          logging.Component(logger, "weather"),
	}
}

type geoResponse struct {
	Results []geoPlace `json:"results"`
}

type geoPlace struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type forecastResponse struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Reason string `json:"reason"`
}

// placeWeather is one resolved lookup; found is false for soft failures.
type placeWeather struct {
	summary     string
	label       string
	temperature float64
	found       bool
	raw         json.RawMessage
}

func (c *WeatherClient) WeatherForPlace(ctx context.Context, name string) (Result, error) {
	w, err := c.place(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return Result{Summary: w.summary, Raw: w.raw}, nil
}

// RouteWeather looks up both cities concurrently and compares them.
func (c *WeatherClient) RouteWeather(ctx context.Context, q RouteQuery) (Result, error) {
	var origin, destination placeWeather

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, err = c.place(gctx, q.OriginCity)
		return err
	})
	g.Go(func() error {
		var err error
		destination, err = c.place(gctx, q.DestinationCity)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	summary := "Origin: " + origin.summary + "\nDestination: " + destination.summary
	if origin.found && destination.found {
		summary += "\n" + compareTemperatures(origin, destination)
	}

	raw, _ := json.Marshal(map[string]json.RawMessage{
		"origin":      orNull(origin.raw),
		"destination": orNull(destination.raw),
	})
	return Result{Summary: summary, Raw: raw}, nil
}

func (c *WeatherClient) place(ctx context.Context, name string) (placeWeather, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return placeWeather{summary: "No city was provided, so no weather could be looked up."}, nil
	}

	status, body, err := get(ctx, c.client, c.geocodingURL, url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	})
	if err != nil {
		return placeWeather{}, fmt.Errorf("geocoding %q: %w", name, err)
	}
	if status >= 300 {
		c.log.Warn("geocoding error", "place", name, "status", status)
		return placeWeather{summary: fmt.Sprintf("The weather service could not look up %q right now.", name), raw: rawJSON(body)}, nil
	}

	var geo geoResponse
	if err := json.Unmarshal(body, &geo); err != nil {
		return placeWeather{}, fmt.Errorf("geocoding %q: decoding response: %w", name, err)
	}
	if len(geo.Results) == 0 {
		return placeWeather{summary: fmt.Sprintf("I couldn't find a city called %q.", name), raw: rawJSON(body)}, nil
	}

	p := geo.Results[0]
	label := p.Name
	if p.Country != "" {
		label += ", " + p.Country
	}

	status, body, err = get(ctx, c.client, c.forecastURL, url.Values{
		"latitude":  {strconv.FormatFloat(p.Latitude, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(p.Longitude, 'f', 4, 64)},
		"current":   {"temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code"},
		"timezone":  {"auto"},
	})
	if err != nil {
		return placeWeather{}, fmt.Errorf("forecast for %q: %w", label, err)
	}

	var fc forecastResponse
	decodeErr := json.Unmarshal(body, &fc)
	if status >= 300 {
		reason := http.StatusText(status)
		if decodeErr == nil && fc.Reason != "" {
			reason = fc.Reason
		}
		c.log.Warn("forecast error", "place", label, "status", status, "reason", reason)
		return placeWeather{summary: fmt.Sprintf("Weather for %s is unavailable right now (%s).", label, reason), raw: rawJSON(body)}, nil
	}
	if decodeErr != nil {
		return placeWeather{}, fmt.Errorf("forecast for %q: decoding response: %w", label, decodeErr)
	}

	cur := fc.Current
	summary := fmt.Sprintf("Weather in %s: %s, %.1f°C, wind %.0f km/h, humidity %.0f%%.",
		label, describeWeatherCode(cur.WeatherCode), cur.Temperature, cur.WindSpeed, cur.Humidity)

	return placeWeather{
		summary:     summary,
		label:       p.Name,
		temperature: cur.Temperature,
		found:       true,
		raw:         rawJSON(body),
	}, nil
}

func compareTemperatures(origin, destination placeWeather) string {
	diff := destination.temperature - origin.temperature
	switch {
	case math.Abs(diff) < 1:
		return fmt.Sprintf("%s and %s have about the same temperature.", origin.label, destination.label)
	case diff > 0:
		return fmt.Sprintf("%s is %.1f°C warmer than %s.", destination.label, diff, origin.label)
	default:
		return fmt.Sprintf("%s is %.1f°C colder than %s.", destination.label, -diff, origin.label)
	}
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// WMO weather interpretation codes used by Open-Meteo.
var weatherCodes = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	56: "light freezing drizzle",
	57: "dense freezing drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	66: "light freezing rain",
	67: "heavy freezing rain",
	71: "slight snowfall",
	73: "moderate snowfall",
	75: "heavy snowfall",
	77: "snow grains",
	80: "slight rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	85: "slight snow showers",
	86: "heavy snow showers",
	95: "thunderstorm",
	96: "thunderstorm with slight hail",
	99: "thunderstorm with heavy hail",
}

func describeWeatherCode(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return "conditions unknown"
}
