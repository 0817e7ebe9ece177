package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *log.Logger
}

// NewOpenAIClient builds the OpenAI backend. baseURL may be empty.
func NewOpenAIClient(apiKey, model, baseURL string, logger *log.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    logging.Component(logger, "openai"),
	}, nil
}

func (c *OpenAIClient) GetReply(
	ctx context.Context,
	history []Message,
	opts Options,
) (string, error) {

	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	})
	if err != nil {
		return "", generationFailed("openai", err)
	}

	if len(resp.Choices) == 0 {
		return "", generationFailed("openai", errors.New("no choices returned"))
	}

	raw := resp.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		return "", generationFailed("openai", errBlankReply)
	}

	c.log.Debug("raw reply", "model", c.model, "reply", logging.Short(raw))
	return raw, nil
}
