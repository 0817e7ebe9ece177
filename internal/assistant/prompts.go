package assistant

import (
	"fmt"
	"strings"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/toolcall"
)

const DefaultBasePrompt = `You are the virtual assistant of an airline help center.
Answer travellers' questions about flights, baggage, check-in and travel conditions.
Be friendly, brief and accurate. Never invent flight times, gates or weather.
If you do not know something, say so and suggest contacting the support team.`

const plainOnlyInstruction = `Reply only in natural language, addressed to the customer.
Do not output JSON, code blocks or any structured data.`

const groundingInstruction = `Use the data above to answer my last question naturally.
Do not mention TOOL_RESULT, action names or raw field labels, and do not output JSON.`

var actionDocs = map[toolcall.ActionID]string{
	toolcall.ActionNone:                   `{"action":"none"} - no external data is needed`,
	toolcall.ActionFlightStatus:           `{"action":"flight_status","params":{"flight_number":"UA2402","date":"YYYY-MM-DD (optional)"}} - live status of a flight`,
	toolcall.ActionRouteWeather:           `{"action":"route_weather","params":{"origin_city":"Barcelona","destination_city":"Dublin"}} - current weather in two cities`,
	toolcall.ActionWeatherAtFlightArrival: `{"action":"weather_at_flight_arrival","params":{"flight_number":"EI105","date":"YYYY-MM-DD (optional)"}} - weather where a flight lands`,
}

// prompts are built once from configuration and never change afterwards.
type prompts struct {
	base      string
	toolAware string
	plainOnly string
}

func newPrompts(base string, actions toolcall.ActionSet) prompts {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBasePrompt
	}
	return prompts{
		base:      base,
		toolAware: base + "\n\n" + toolInstructions(actions),
		plainOnly: base + "\n\n" + plainOnlyInstruction,
	}
}

func toolInstructions(actions toolcall.ActionSet) string {
	var sb strings.Builder
	sb.WriteString("Before answering, decide whether live data is needed.\n")
	sb.WriteString("Reply with ONLY one JSON object, no other text, choosing one of:\n")
	for _, id := range actions {
		if doc, ok := actionDocs[id]; ok {
			sb.WriteString("- " + doc + "\n")
		}
	}
	sb.WriteString("Use the exact action names above. If unsure, use \"none\".")
	return sb.String()
}

func toolResultMessage(res ToolResult) ai.Message {
	return ai.AssistantMessage(fmt.Sprintf("%s %s: %s", ai.ToolResultLabel, res.Action, res.Summary))
}
