package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/lookup"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/toolcall"
)

// dispatch runs the lookup behind an action. Errors here are lookup faults
// and fail the turn; soft failures arrive as summaries.
func (s *service) dispatch(ctx context.Context, action toolcall.Action) (ToolResult, error) {
	switch a := action.(type) {
	case toolcall.FlightStatus:
		res, err := s.flights.FlightStatus(ctx, lookup.FlightQuery{FlightNumber: a.FlightNumber, Date: a.Date})
		if err != nil {
			return ToolResult{}, err
		}
		return toolResult(a.ID(), res), nil

	case toolcall.RouteWeather:
		res, err := s.weather.RouteWeather(ctx, lookup.RouteQuery{OriginCity: a.OriginCity, DestinationCity: a.DestinationCity})
		if err != nil {
			return ToolResult{}, err
		}
		return toolResult(a.ID(), res), nil

	case toolcall.WeatherAtFlightArrival:
		return s.weatherAtArrival(ctx, a)

	case toolcall.None:
		return ToolResult{}, fmt.Errorf("action %q has no lookup", a.ID())

	default:
		return ToolResult{}, fmt.Errorf("unsupported action %q", action.ID())
	}
}

// weatherAtArrival needs the flight's arrival place before it can ask for
// weather, so the two lookups run one after the other.
func (s *service) weatherAtArrival(ctx context.Context, a toolcall.WeatherAtFlightArrival) (ToolResult, error) {
	flight, err := s.flights.FlightStatus(ctx, lookup.FlightQuery{FlightNumber: a.FlightNumber, Date: a.Date})
	if err != nil {
		return ToolResult{}, err
	}
	if flight.ArrivalLocation == "" {
		return toolResult(a.ID(), flight), nil
	}

	weather, err := s.weather.WeatherForPlace(ctx, flight.ArrivalLocation)
	if err != nil {
		return ToolResult{}, err
	}

	raw, _ := json.Marshal(map[string]json.RawMessage{
		"flight":  nullIfEmpty(flight.Raw),
		"weather": nullIfEmpty(weather.Raw),
	})
	return ToolResult{
		Action:          a.ID(),
		Summary:         flight.Summary + "\n" + weather.Summary,
		Raw:             raw,
		ArrivalLocation: flight.ArrivalLocation,
	}, nil
}

func toolResult(id toolcall.ActionID, res lookup.Result) ToolResult {
	return ToolResult{
		Action:          id,
		Summary:         res.Summary,
		Raw:             res.Raw,
		ArrivalLocation: res.ArrivalLocation,
	}
}

func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
