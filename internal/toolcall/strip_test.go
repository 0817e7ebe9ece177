package toolcall

import (
	"strings"
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no action word",
			in:   "  Your gate is B12.  ",
			want: "Your gate is B12.",
		},
		{
			name: "the word action without json",
			in:   "No action is needed   on your side.",
			want: "No action is needed on your side.",
		},
		{
			name: "json after prose",
			in:   "Sure, one moment.\n{\"action\":\"flight_status\",\"params\":{\"flight_number\":\"UA2402\"}}",
			want: "Sure, one moment.",
		},
		{
			name: "json between prose",
			in:   "Checking now. {\"action\":\"route_weather\",\"params\":{\"origin_city\":\"Barcelona\",\"destination_city\":\"Dublin\"}} It is sunny in Barcelona.",
			want: "Checking now. It is sunny in Barcelona.",
		},
		{
			name: "several fragments",
			in:   "{\"action\":\"none\"}\nHello!\n{\"action\":\"none\"}\nHow can I help?\n{\"action\":\"flight_status\",\"params\":{}}",
			want: "Hello!\n\nHow can I help?",
		},
		{
			name: "fenced json",
			in:   "Here you go:\n```json\n{\"action\":\"flight_status\",\"params\":{\"flight_number\":\"UA2402\"}}\n```\nAnything else?",
			want: "Here you go:\n\nAnything else?",
		},
		{
			name: "unterminated fence",
			in:   "```json\n{\"action\":\"none\"}\nYour flight is on time.",
			want: "Your flight is on time.",
		},
		{
			name: "smart quotes",
			in:   "Thanks! {“action”: “none”}",
			want: "Thanks!",
		},
		{
			name: "bullet left behind",
			in:   "Options:\n- {\"action\":\"none\"}\n- call the airline",
			want: "Options:\n- call the airline",
		},
		{
			name: "bullet inside the brace",
			in:   "Ok {\n - \"action\": \"none\"} bye",
			want: "Ok bye",
		},
		{
			name: "action key not first",
			in:   "One sec {\"params\":{\"flight_number\":\"UA1\"},\"action\":\"flight_status\"} done",
			want: "One sec done",
		},
		{
			name: "extra keys after params",
			in:   "Sunny in both. {\"action\":\"route_weather\",\"params\":{\"origin_city\":\"Rome\",\"destination_city\":\"Oslo\"},\"reason\":\"user asked\"}",
			want: "Sunny in both.",
		},
		{
			name: "nested value after params",
			in:   "On it {\"action\":\"flight_status\",\"params\":{\"flight_number\":\"UA1\"},\"meta\":{\"confidence\":0.9}} ok",
			want: "On it ok",
		},
		{
			name: "unknown action is left alone",
			in:   "Result: {\"action\":\"delete_booking\"}",
			want: "Result: {\"action\":\"delete_booking\"}",
		},
		{
			name: "only json falls back to the original",
			in:   "  {\"action\":\"none\"}  ",
			want: "{\"action\":\"none\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Errorf("Strip() = %q, want %q", got, tt.want)
			}
		})
	}
}

var stripCorpus = []string{
	"",
	"Hello there",
	`{"action":"none"}`,
	"Sure.\n{\"action\":\"flight_status\",\"params\":{\"flight_number\":\"UA2402\"}}\nDone.",
	"```json\n{\"action\":\"route_weather\",\"params\":{\"origin_city\":\"A\",\"destination_city\":\"B\"}}\n```",
	"```\n{\"action\":\"none\"}\n```\n\n\n\nBye   now",
	"- {\"action\":\"none\"}\n-\n* item",
	"{\"action\":\"weather_at_flight_arrival\",\"params\":{\"flight_number\":\"EI1\"}} {\"action\":\"none\"} text {x}",
	"Prices {\"action\":\"flight_status\" broken json and more text",
	"nested {\"params\":{\"flight_number\":\"UA1\"},\"action\":\"flight_status\"} {\"action\":\"none\"}}}",
	"Windows line\r\nendings {\"action\":\"none\"}\r\nhere",
	"Sunny {\"action\":\"none\",\"params\":{},\"reason\":\"x\"} today",
	"{“action”:“flight_status”,“params”:{“flight_number”:“LH400”}} Lufthansa",
}

func TestStripIdempotent(t *testing.T) {
	for _, in := range stripCorpus {
		once := Strip(in)
		twice := Strip(once)
		if once != twice {
			t.Errorf("Strip not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestStripNoLeak(t *testing.T) {
	fragments := []string{
		`{"action":"flight_status","params":{"flight_number":"UA2402"}}`,
		`{"action": "route_weather", "params": {"origin_city": "Barcelona", "destination_city": "Dublin"}}`,
		`{"action":"weather_at_flight_arrival","params":{"flight_number":"EI105","date":"2025-01-02"}}`,
		`{"action":"none"}`,
	}
	wrappers := []func(string) string{
		func(f string) string { return "Let me check that. " + f },
		func(f string) string { return f + "\nI'll get back to you." },
		func(f string) string { return "Hi!\n" + f + "\nand\n" + f + "\nbye" },
		func(f string) string { return "Here:\n```json\n" + f + "\n```\nThanks." },
		func(f string) string { return "* " + f + "\n* also this" },
	}

	for _, f := range fragments {
		for i, wrap := range wrappers {
			in := wrap(f)
			got := Strip(in)
			if ContainsToolJSON(got) {
				t.Errorf("wrapper %d leaked tool json: %q", i, got)
			}
			if strings.Contains(got, "```") {
				t.Errorf("wrapper %d left a code fence: %q", i, got)
			}
			if got == "" {
				t.Errorf("wrapper %d produced an empty reply", i)
			}
		}
	}
}

func TestContainsToolJSON(t *testing.T) {
	if !ContainsToolJSON(`text {"action":"none"}`) {
		t.Error("expected match for none action")
	}
	if ContainsToolJSON(`{"action":"cancel_everything"}`) {
		t.Error("unknown action should not match")
	}
	if ContainsToolJSON("nothing to see") {
		t.Error("plain text should not match")
	}
}
