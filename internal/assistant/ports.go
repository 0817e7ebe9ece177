package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/lookup"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/toolcall"
)

// ErrTurnFailed marks a chat turn that produced no reply.
var ErrTurnFailed = errors.New("could not generate a reply")

// FlightLookup and WeatherLookup are the data collaborators. They report
// "not found" and similar conditions in the summary, not as errors.
type FlightLookup interface {
	FlightStatus(ctx context.Context, q lookup.FlightQuery) (lookup.Result, error)
}

type WeatherLookup interface {
	RouteWeather(ctx context.Context, q lookup.RouteQuery) (lookup.Result, error)
	WeatherForPlace(ctx context.Context, name string) (lookup.Result, error)
}

// ToolResult is the outcome of one dispatched action.
type ToolResult struct {
	Action          toolcall.ActionID
	Summary         string
	Raw             json.RawMessage
	ArrivalLocation string
}

// TurnRecord is one audited chat turn.
type TurnRecord struct {
	ID          string
	Action      string
	ToolSummary string
	ToolPayload json.RawMessage
	Reply       string
	CreatedAt   time.Time
}

// AuditLog persists turn records for diagnostics. It is never read back into
// a conversation.
type AuditLog interface {
	SaveTurn(ctx context.Context, rec *TurnRecord) error
}

// Service handles one chat turn.
type Service interface {
	HandleTurn(ctx context.Context, history []ai.Message) (string, error)
}
