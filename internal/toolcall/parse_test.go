package toolcall

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		want   Action
	}{
		{
			name:   "whole reply is json",
			raw:    `{"action":"flight_status","params":{"flight_number":"UA2402"}}`,
			wantOK: true,
			want:   FlightStatus{FlightNumber: "UA2402"},
		},
		{
			name:   "surrounding whitespace",
			raw:    "\n  {\"action\":\"flight_status\",\"params\":{\"flight_number\":\" UA2402 \",\"date\":\"2025-03-01\"}}  \n",
			wantOK: true,
			want:   FlightStatus{FlightNumber: "UA2402", Date: "2025-03-01"},
		},
		{
			name:   "leading prose",
			raw:    "Sure, one moment.\n{\"action\":\"route_weather\",\"params\":{\"origin_city\":\"Barcelona\",\"destination_city\":\"Dublin\"}}",
			wantOK: true,
			want:   RouteWeather{OriginCity: "Barcelona", DestinationCity: "Dublin"},
		},
		{
			name:   "prose on both sides with stray braces",
			raw:    "Let me check {quickly}. {\"action\":\"weather_at_flight_arrival\",\"params\":{\"flight_number\":\"EI105\"}} Back soon {ok}",
			wantOK: true,
			want:   WeatherAtFlightArrival{FlightNumber: "EI105"},
		},
		{
			name:   "code fenced",
			raw:    "```json\n{\"action\":\"none\"}\n```",
			wantOK: true,
			want:   None{},
		},
		{
			name:   "none",
			raw:    `{"action":"none"}`,
			wantOK: true,
			want:   None{},
		},
		{
			name:   "params with wrong shape still yields the action",
			raw:    `{"action":"flight_status","params":"UA2402"}`,
			wantOK: true,
			want:   FlightStatus{},
		},
		{
			name:   "latest of two objects wins",
			raw:    `{"action":"none"} actually {"action":"flight_status","params":{"flight_number":"BA1"}}`,
			wantOK: true,
			want:   FlightStatus{FlightNumber: "BA1"},
		},
		{
			name: "unknown action",
			raw:  `{"action":"delete_booking"}`,
		},
		{
			name: "action is not a string",
			raw:  `{"action":42}`,
		},
		{
			name: "plain text",
			raw:  "Your flight leaves from terminal 2.",
		},
		{
			name: "json without action",
			raw:  `{"answer":"hello"}`,
		},
		{
			name: "truncated json",
			raw:  `{"action":"flight_status","params":{"flight_number":"UA2402"`,
		},
		{
			name: "empty",
			raw:  "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Parse() ok = %v, want %v (action %#v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLegacySetRejectsArrivalWeather(t *testing.T) {
	raw := `{"action":"weather_at_flight_arrival","params":{"flight_number":"EI105"}}`

	if _, ok := LegacySet.Parse(raw); ok {
		t.Error("legacy set accepted weather_at_flight_arrival")
	}
	if _, ok := FullSet.Parse(raw); !ok {
		t.Error("full set rejected weather_at_flight_arrival")
	}
	if a, ok := LegacySet.Parse(`{"action":"route_weather","params":{"origin_city":"Rome","destination_city":"Oslo"}}`); !ok || a.ID() != ActionRouteWeather {
		t.Errorf("legacy set Parse() = %v, %v", a, ok)
	}
}

func TestParseActionSet(t *testing.T) {
	for name, want := range map[string]int{"full": 4, "": 4, "Legacy": 3} {
		set, err := ParseActionSet(name)
		if err != nil {
			t.Fatalf("ParseActionSet(%q) error: %v", name, err)
		}
		if len(set) != want {
			t.Errorf("ParseActionSet(%q) has %d actions, want %d", name, len(set), want)
		}
	}
	if _, err := ParseActionSet("all"); err == nil {
		t.Error("expected error for unknown set")
	}
}

func TestLooksLikeToolJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"action":"delete_booking"}`, true},
		{`{"action": "flight_status", "params": {`, true},
		{"```json\n{\"action\":\"oops\"", true},
		{"Sure, here is the action plan.", false},
		{`{"answer":"hi"}`, false},
	}
	for _, tt := range tests {
		if got := LooksLikeToolJSON(tt.raw); got != tt.want {
			t.Errorf("LooksLikeToolJSON(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
