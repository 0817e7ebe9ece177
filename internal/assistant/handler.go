package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const maxRequestBytes = 1 << 20

type Handler struct {
	svc Service
	log *log.Logger
}

func NewHandler(svc Service, logger *log.Logger) *Handler {
	return &Handler{svc: svc, log: logging.Component(logger, "http")}
}

type chatRequest struct {
	Messages []ai.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleChat answers the last user message of a conversation.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	if msg := validate(req.Messages); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	reply, err := h.svc.HandleTurn(r.Context(), req.Messages)
	if err != nil {
		h.log.Error("chat turn failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: ErrTurnFailed.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func validate(msgs []ai.Message) string {
	if len(msgs) == 0 {
		return "messages must not be empty"
	}
	hasUser := false
	for _, m := range msgs {
		switch m.Role {
		case ai.RoleUser:
			if strings.TrimSpace(m.Content) != "" {
				hasUser = true
			}
		case ai.RoleAssistant, ai.RoleSystem:
		default:
			return "unknown role " + string(m.Role)
		}
	}
	if !hasUser {
		return "at least one user message is required"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
