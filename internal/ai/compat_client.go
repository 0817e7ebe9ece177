package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// CompatClient works with OpenAI-compatible chat endpoints. It backs the
// "gemini" provider through Google's compatibility layer.
type CompatClient struct {
	client *openai.Client
	name   string
	model  string
	log    *log.Logger
}

func NewGeminiClient(apiKey, model, baseURL string, logger *log.Logger) (*CompatClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is not set")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return NewCompatClient("gemini", baseURL, apiKey, model, logger), nil
}

func NewCompatClient(name, baseURL, apiKey, model string, logger *log.Logger) *CompatClient {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &CompatClient{
		client: &client,
		name:   name,
		model:  model,
		log:    logging.Component(logger, name),
	}
}

func (c *CompatClient) GetReply(ctx context.Context, history []Message, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    toCompatMessages(history),
		Temperature: openai.Float(float64(opts.Temperature)),
	}
	if opts.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxOutputTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", generationFailed(c.name, err)
	}
	if len(completion.Choices) == 0 {
		return "", generationFailed(c.name, errors.New("no choices returned"))
	}

	raw := completion.Choices[0].Message.Content
	if strings.TrimSpace(raw) == "" {
		return "", generationFailed(c.name, errBlankReply)
	}

	c.log.Debug("raw reply", "model", c.model, "reply", logging.Short(raw))
	return raw, nil
}

func toCompatMessages(history []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
