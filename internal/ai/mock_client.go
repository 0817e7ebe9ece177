package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is the offline backend. It never touches the network and never
// asks for a tool: with lookup data in the conversation it relays it,
// otherwise it echoes the question and explains that live answers are
// unavailable.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (*MockClient) GetReply(_ context.Context, history []Message, _ Options) (string, error) {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != RoleAssistant || !strings.HasPrefix(m.Content, ToolResultLabel+" ") {
			continue
		}
		_, summary, ok := strings.Cut(m.Content, ": ")
		if ok && strings.TrimSpace(summary) != "" {
			return "Here is what I found. " + strings.TrimSpace(summary), nil
		}
	}

	question := lastUserText(history)
	if question == "" {
		return "Hello! How can I help you with your trip today?", nil
	}
	return fmt.Sprintf("Thanks for your message (%q). I can't reach our live systems at the moment, "+
		"so please try again shortly or contact our support team for urgent requests.", quoteShort(question)), nil
}

// quoteShort keeps the first line of a message, at most 60 runes, without braces.
func quoteShort(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	s = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 60 {
		s = strings.TrimSpace(string(r[:60])) + "..."
	}
	return s
}

func lastUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return strings.TrimSpace(history[i].Content)
		}
	}
	return ""
}
