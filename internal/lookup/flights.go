package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const defaultAviationstackURL = "http://api.aviationstack.com/v1"

// FlightClient looks up live flight status on aviationstack.
type FlightClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *log.Logger
}

func NewFlightClient(apiKey, baseURL string, logger *log.Logger) *FlightClient {
	if baseURL == "" {
		baseURL = defaultAviationstackURL
	}
	return &FlightClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  newHTTPClient(),
		log:     logging.Component(logger, "flights"),
	}
}

type flightsResponse struct {
	Data  []flightRecord `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type flightRecord struct {
	FlightDate   string         `json:"flight_date"`
	FlightStatus string         `json:"flight_status"`
	Departure    flightEndpoint `json:"departure"`
	Arrival      flightEndpoint `json:"arrival"`
	Airline      struct {
		Name string `json:"name"`
	} `json:"airline"`
	Flight struct {
		IATA string `json:"iata"`
	} `json:"flight"`
}

type flightEndpoint struct {
	Airport   string   `json:"airport"`
	Timezone  string   `json:"timezone"`
	IATA      string   `json:"iata"`
	Terminal  string   `json:"terminal"`
	Gate      string   `json:"gate"`
	Delay     *float64 `json:"delay"`
	Scheduled string   `json:"scheduled"`
	Estimated string   `json:"estimated"`
}

func (c *FlightClient) FlightStatus(ctx context.Context, q FlightQuery) (Result, error) {
	number := normalizeFlightNumber(q.FlightNumber)
	if number == "" {
		return Result{Summary: "No flight number was provided, so no flight status could be looked up. Ask the customer for their flight number (for example UA2402)."}, nil
	}
	if c.apiKey == "" {
		return Result{Summary: fmt.Sprintf("Live flight status is not configured right now, so the status of flight %s could not be checked.", number)}, nil
	}

	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("flight_iata", number)
	if date := strings.TrimSpace(q.Date); date != "" {
		params.Set("flight_date", date)
	}

	c.log.Info("looking up flight", "flight", number, "date", q.Date)

	status, body, err := get(ctx, c.client, c.baseURL+"/flights", params)
	if err != nil {
		return Result{}, fmt.Errorf("aviationstack: %w", err)
	}

	var payload flightsResponse
	decodeErr := json.Unmarshal(body, &payload)

	if status >= 300 || payload.Error != nil {
		reason := http.StatusText(status)
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			reason = payload.Error.Message
		}
		c.log.Warn("flight provider error", "flight", number, "status", status, "reason", reason)
		return Result{
			Summary: fmt.Sprintf("The flight status service returned an error for flight %s (%s), so live data is unavailable.", number, reason),
			Raw:     rawJSON(body),
		}, nil
	}
	if decodeErr != nil {
		return Result{}, fmt.Errorf("aviationstack: decoding response: %w", decodeErr)
	}

	if len(payload.Data) == 0 {
		return Result{
			Summary: fmt.Sprintf("I couldn't find any flight %s%s.", number, onDate(q.Date)),
			Raw:     rawJSON(body),
		}, nil
	}

	f := payload.Data[0]
	return Result{
		Summary:         summarizeFlight(number, f),
		Raw:             rawJSON(body),
		ArrivalLocation: arrivalLocation(f.Arrival),
	}, nil
}

func summarizeFlight(number string, f flightRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Flight %s", number)
	if f.Airline.Name != "" {
		fmt.Fprintf(&sb, " (%s)", f.Airline.Name)
	}
	if f.FlightDate != "" {
		fmt.Fprintf(&sb, " on %s", f.FlightDate)
	}
	status := f.FlightStatus
	if status == "" {
		status = "unknown"
	}
	fmt.Fprintf(&sb, ": %s.", status)

	sb.WriteString(describeEndpoint(" Departure", f.Departure))
	sb.WriteString(describeEndpoint(" Arrival", f.Arrival))
	return sb.String()
}

func describeEndpoint(label string, e flightEndpoint) string {
	if e.Airport == "" && e.IATA == "" {
		return ""
	}

	parts := []string{airportName(e)}
	if t := formatTime(e.Scheduled); t != "" {
		parts = append(parts, "scheduled "+t)
	}
	if t := formatTime(e.Estimated); t != "" && e.Estimated != e.Scheduled {
		parts = append(parts, "estimated "+t)
	}
	if e.Delay != nil && *e.Delay > 0 {
		parts = append(parts, fmt.Sprintf("delayed %.0f min", *e.Delay))
	}
	if e.Terminal != "" {
		parts = append(parts, "terminal "+e.Terminal)
	}
	if e.Gate != "" {
		parts = append(parts, "gate "+e.Gate)
	}
	return label + ": " + strings.Join(parts, ", ") + "."
}

func airportName(e flightEndpoint) string {
	switch {
	case e.Airport != "" && e.IATA != "":
		return fmt.Sprintf("%s (%s)", e.Airport, e.IATA)
	case e.Airport != "":
		return e.Airport
	default:
		return e.IATA
	}
}

// arrivalLocation prefers the city in the arrival time zone
// ("Europe/Dublin" -> "Dublin") and falls back to the airport name.
func arrivalLocation(e flightEndpoint) string {
	if i := strings.LastIndexByte(e.Timezone, '/'); i >= 0 && i < len(e.Timezone)-1 {
		return strings.ReplaceAll(e.Timezone[i+1:], "_", " ")
	}
	return e.Airport
}

func formatTime(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

func normalizeFlightNumber(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func onDate(date string) string {
	if date = strings.TrimSpace(date); date != "" {
		return " on " + date
	}
	return ""
}

func rawJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	b, _ := json.Marshal(string(body))
	return b
}
