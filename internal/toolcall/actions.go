// Package toolcall implements the text protocol a model uses to ask for
// external data: a JSON object such as
//
//	{"action":"flight_status","params":{"flight_number":"UA2402"}}
//
// embedded in its reply. Parse turns a reply into a typed Action and Strip
// removes every such object from text that is about to be shown to a user.
package toolcall

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ActionID string

const (
	ActionNone                   ActionID = "none"
	ActionFlightStatus           ActionID = "flight_status"
	ActionRouteWeather           ActionID = "route_weather"
	ActionWeatherAtFlightArrival ActionID = "weather_at_flight_arrival"
)

// Action is one of None, FlightStatus, RouteWeather or WeatherAtFlightArrival.
// The interface is sealed so the set of actions is closed to this package.
type Action interface {
	ID() ActionID
	isAction()
}

// None means the model decided no external data is needed.
type None struct{}

type FlightStatus struct {
	FlightNumber string `json:"flight_number"`
	Date         string `json:"date,omitempty"`
}

type RouteWeather struct {
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
}

// WeatherAtFlightArrival looks up a flight and then the weather where it lands.
type WeatherAtFlightArrival struct {
	FlightNumber string `json:"flight_number"`
	Date         string `json:"date,omitempty"`
}

func (None) ID() ActionID                   { return ActionNone }
func (FlightStatus) ID() ActionID           { return ActionFlightStatus }
func (RouteWeather) ID() ActionID           { return ActionRouteWeather }
func (WeatherAtFlightArrival) ID() ActionID { return ActionWeatherAtFlightArrival }

func (None) isAction()                   {}
func (FlightStatus) isAction()           {}
func (RouteWeather) isAction()           {}
func (WeatherAtFlightArrival) isAction() {}

// ActionSet is the closed set of action ids a deployment accepts.
type ActionSet []ActionID

var (
	FullSet   = ActionSet{ActionNone, ActionFlightStatus, ActionRouteWeather, ActionWeatherAtFlightArrival}
	LegacySet = ActionSet{ActionNone, ActionFlightStatus, ActionRouteWeather}
)

// ParseActionSet maps a configuration name ("full" or "legacy") to its set.
func ParseActionSet(name string) (ActionSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "full":
		return FullSet, nil
	case "legacy":
		return LegacySet, nil
	default:
		return nil, fmt.Errorf("toolcall: unknown action set %q", name)
	}
}

func (s ActionSet) Contains(id ActionID) bool {
	for _, a := range s {
		if a == id {
			return true
		}
	}
	return false
}

type envelope struct {
	Action ActionID        `json:"action"`
	Params json.RawMessage `json:"params"`
}

// decode builds an Action from one JSON object. Objects whose action is
// missing or outside s are rejected.
func (s ActionSet) decode(data []byte) (Action, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if env.Action == "" || !s.Contains(env.Action) {
		return nil, false
	}

	switch env.Action {
	case ActionNone:
		return None{}, true
	case ActionFlightStatus:
		var p FlightStatus
		decodeParams(env.Params, &p)
		p.FlightNumber = strings.TrimSpace(p.FlightNumber)
		p.Date = strings.TrimSpace(p.Date)
		return p, true
	case ActionRouteWeather:
		var p RouteWeather
		decodeParams(env.Params, &p)
		p.OriginCity = strings.TrimSpace(p.OriginCity)
		p.DestinationCity = strings.TrimSpace(p.DestinationCity)
		return p, true
	case ActionWeatherAtFlightArrival:
		var p WeatherAtFlightArrival
		decodeParams(env.Params, &p)
		p.FlightNumber = strings.TrimSpace(p.FlightNumber)
		p.Date = strings.TrimSpace(p.Date)
		return p, true
	}
	return nil, false
}

// decodeParams is lenient: params that do not fit the shape are left zero and
// the lookup reports what is missing.
func decodeParams(raw json.RawMessage, into any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, into)
}
