package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/toolcall"
)

// fallbackReply replaces a final reply that still carries tool JSON after
// stripping (the model answered with nothing but JSON).
const fallbackReply = "Sorry, I couldn't put an answer together just now. Could you rephrase your question?"

type Settings struct {
	Actions    toolcall.ActionSet
	BasePrompt string
	Window     int
	Options    ai.Options
}

type service struct {
	ai      ai.AI
	flights FlightLookup
	weather WeatherLookup
	audit   AuditLog

	actions toolcall.ActionSet
	prompts prompts
	window  int
	opts    ai.Options
	log     *log.Logger
}

// NewService builds the turn orchestrator. audit may be nil.
func NewService(
	audit AuditLog,
	aiClient ai.AI,
	flights FlightLookup,
	weather WeatherLookup,
	settings Settings,
	logger *log.Logger,
) Service {
	actions := settings.Actions
	if len(actions) == 0 {
		actions = toolcall.FullSet
	}
	window := settings.Window
	if window < 1 {
		window = 1
	}

	return &service{
		ai:      aiClient,
		flights: flights,
		weather: weather,
		audit:   audit,
		actions: actions,
		prompts: newPrompts(settings.BasePrompt, actions),
		window:  window,
		opts:    settings.Options,
		log:     logging.Component(logger, "assistant"),
	}
}

// HandleTurn runs one chat turn:
//
//  1. ask with tool instructions and parse the reply for an action;
//  2. no action: return the stripped reply, or re-ask for plain language when
//     the reply was a failed or "none" tool call;
//  3. action: run the lookup, then ask again with the result and return that.
func (s *service) HandleTurn(ctx context.Context, history []ai.Message) (string, error) {
	rec := &TurnRecord{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	lg := s.log.With("turn", rec.ID)

	turns := conversationTurns(history)
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: conversation has no messages", ErrTurnFailed)
	}

	// STEP 1: tool-aware query
	raw, err := s.ask(ctx, s.prompts.toolAware, turns)
	if err != nil {
		return "", s.fail(lg, "tool-aware query", err)
	}
	lg.Debug("phase 1 reply", "raw", logging.Short(raw))

	action, found := s.actions.Parse(raw)

	var reply string
	switch {
	case !found && toolcall.LooksLikeToolJSON(raw):
		lg.Info("malformed tool call, asking again for plain language")
		reply, err = s.askPlain(ctx, turns)

	case !found:
		reply = finalize(raw)

	case action.ID() == toolcall.ActionNone:
		rec.Action = string(toolcall.ActionNone)
		reply, err = s.askPlain(ctx, turns)

	default:
		rec.Action = string(action.ID())
		lg.Info("dispatching action", "action", action.ID())

		var res ToolResult
		res, err = s.dispatch(ctx, action)
		if err != nil {
			return "", s.fail(lg, "lookup "+string(action.ID()), err)
		}
		rec.ToolSummary = res.Summary
		rec.ToolPayload = res.Raw
		lg.Debug("lookup result", "action", res.Action, "summary", logging.Short(res.Summary))

		reply, err = s.ground(ctx, turns, res)
	}
	if err != nil {
		return "", s.fail(lg, "follow-up query", err)
	}

	rec.Reply = reply
	s.saveTurn(ctx, lg, rec)
	return reply, nil
}

// askPlain re-asks without tool instructions over the user turns only. The
// tool-biased reply from step 1 is not part of this conversation.
func (s *service) askPlain(ctx context.Context, turns []ai.Message) (string, error) {
	raw, err := s.ask(ctx, s.prompts.plainOnly, userTurns(turns))
	if err != nil {
		return "", err
	}
	return finalize(raw), nil
}

// ground asks for the final answer from the user turns, the lookup result and
// the grounding instruction.
func (s *service) ground(ctx context.Context, turns []ai.Message, res ToolResult) (string, error) {
	users := userTurns(turns)
	conv := make([]ai.Message, 0, len(users)+2)
	conv = append(conv, users...)
	conv = append(conv,
		toolResultMessage(res),
		ai.UserMessage(groundingInstruction),
	)

	raw, err := s.ask(ctx, s.prompts.base, conv)
	if err != nil {
		return "", err
	}
	return finalize(raw), nil
}

func (s *service) ask(ctx context.Context, system string, turns []ai.Message) (string, error) {
	return s.ai.GetReply(ctx, window(system, turns, s.window), s.opts)
}

func (s *service) fail(lg *log.Logger, stage string, err error) error {
	lg.Error("turn failed", "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrTurnFailed, stage, err)
}

func (s *service) saveTurn(ctx context.Context, lg *log.Logger, rec *TurnRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.SaveTurn(ctx, rec); err != nil {
		lg.Warn("audit write failed", "error", err)
	}
}

// toolResultEcho matches a model repeating the lookup label back.
var toolResultEcho = regexp.MustCompile(ai.ToolResultLabel + `(?:[ \t]+[a-z_]+)?[ \t]*:?[ \t]*`)

// finalize is the last step before text reaches the user.
func finalize(raw string) string {
	reply := toolcall.Strip(toolResultEcho.ReplaceAllString(raw, ""))
	if reply == "" || toolcall.ContainsToolJSON(reply) {
		return fallbackReply
	}
	return reply
}

// conversationTurns keeps the caller's user and assistant messages in order.
// System messages are ours to set, so caller-supplied ones are dropped.
func conversationTurns(history []ai.Message) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.Role == ai.RoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func userTurns(turns []ai.Message) []ai.Message {
	out := make([]ai.Message, 0, len(turns))
	for _, m := range turns {
		if m.Role == ai.RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// window pins the system message at index 0 followed by the last n turns.
func window(system string, turns []ai.Message, n int) []ai.Message {
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]ai.Message, 0, len(turns)+1)
	out = append(out, ai.SystemMessage(system))
	return append(out, turns...)
}
