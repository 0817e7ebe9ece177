package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

// AnthropicClient talks to the Messages API. System messages are sent as
// system blocks, not as conversation turns.
type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
	log    *log.Logger
}

func NewAnthropicClient(apiKey, model, baseURL string, logger *log.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key is not set")
	}

	m := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		m = anthropic.Model(model)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicClient{
		client: &client,
		model:  m,
		log:    logging.Component(logger, "anthropic"),
	}, nil
}

func (c *AnthropicClient) GetReply(ctx context.Context, history []Message, opts Options) (string, error) {
	msgs, system := toAnthropicMessages(history)
	if len(msgs) == 0 {
		return "", generationFailed("anthropic", errors.New("no user message to answer"))
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   int64(opts.MaxOutputTokens),
		Temperature: anthropic.Float(float64(opts.Temperature)),
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", generationFailed("anthropic", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	raw := sb.String()
	if strings.TrimSpace(raw) == "" {
		return "", generationFailed("anthropic", errBlankReply)
	}

	c.log.Debug("raw reply", "model", c.model, "reply", logging.Short(raw))
	return raw, nil
}

// toAnthropicMessages splits out system blocks and drops assistant turns that
// would open the conversation; the API expects a user turn first.
func toAnthropicMessages(history []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(history))

	for _, m := range history {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			if len(msgs) == 0 {
				continue
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return msgs, system
}
