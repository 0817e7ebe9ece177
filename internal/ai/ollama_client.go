package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ollama/ollama/api"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const defaultOllamaModel = "llama3.1:latest"

// OllamaClient is a local backend; it is configured by base URL only.
type OllamaClient struct {
	client *api.Client
	model  string
	log    *log.Logger
}

func NewOllamaClient(baseURL, model string, logger *log.Logger) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = defaultOllamaModel
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base url: %w", err)
	}

	return &OllamaClient{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
		log:    logging.Component(logger, "ollama"),
	}, nil
}

func (c *OllamaClient) GetReply(ctx context.Context, history []Message, opts Options) (string, error) {
	msgs := make([]api.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": opts.Temperature,
			"num_predict": opts.MaxOutputTokens,
		},
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", generationFailed("ollama", err)
	}

	raw := sb.String()
	if strings.TrimSpace(raw) == "" {
		return "", generationFailed("ollama", errBlankReply)
	}

	c.log.Debug("raw reply", "model", c.model, "reply", logging.Short(raw))
	return raw, nil
}
