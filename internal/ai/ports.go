package ai

import (
	"context"
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolResultLabel prefixes the assistant message that carries lookup data
// into the grounding call: "TOOL_RESULT flight_status: <summary>".
const ToolResultLabel = "TOOL_RESULT"

// Message is one conversation entry. Order matters; a system message, when
// present, comes first.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Options are the generation settings passed to every backend.
type Options struct {
	Temperature     float32
	MaxOutputTokens int
}

// AI is a model backend. It knows nothing about tools or lookups.
type AI interface {
	GetReply(ctx context.Context, history []Message, opts Options) (string, error)
}

var (
	// ErrGenerationFailed is returned by a backend on any provider error or blank output.
	ErrGenerationFailed = errors.New("generation failed")
	errBlankReply       = errors.New("blank reply")
)

func generationFailed(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrGenerationFailed, err)
}
