package ai

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/config"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// fallbackSequence is the order of networked providers behind the primary.
var fallbackSequence = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}

// PriorityOrder lays out the chain: the primary first, then the remaining
// networked providers in fallbackSequence order, then mock. Providers missing
// from available are skipped. A mock primary yields a mock-only chain.
func PriorityOrder(primary string, available map[string]AI) []Entry {
	if primary == ProviderMock {
		if b, ok := available[ProviderMock]; ok {
			return []Entry{{ID: ProviderMock, Backend: b}}
		}
	}

	var entries []Entry
	if b, ok := available[primary]; ok && primary != ProviderMock {
		entries = append(entries, Entry{ID: primary, Backend: b})
	}
	for _, id := range fallbackSequence {
		if id == primary {
			continue
		}
		if b, ok := available[id]; ok {
			entries = append(entries, Entry{ID: id, Backend: b})
		}
	}
	if b, ok := available[ProviderMock]; ok {
		entries = append(entries, Entry{ID: ProviderMock, Backend: b})
	}
	return entries
}

// BuildChain creates every configured backend and orders them. Offline mode
// skips the network entirely and uses only the mock backend.
func BuildChain(cfg *config.Config, logger *log.Logger) (*Chain, error) {
	lg := logging.Component(logger, "ai")

	if cfg.OfflineMode {
		lg.Info("offline mode, using mock backend only")
		return NewChain([]Entry{{ID: ProviderMock, Backend: NewMockClient()}}, logger), nil
	}

	available := map[string]AI{}

	if cfg.OpenAI.APIKey != "" {
		c, err := NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, logger)
		if err != nil {
			return nil, err
		}
		available[ProviderOpenAI] = c
	}
	if cfg.Anthropic.APIKey != "" {
		c, err := NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL, logger)
		if err != nil {
			return nil, err
		}
		available[ProviderAnthropic] = c
	}
	if cfg.Gemini.APIKey != "" {
		c, err := NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, logger)
		if err != nil {
			return nil, err
		}
		available[ProviderGemini] = c
	}
	if cfg.Ollama.BaseURL != "" {
		c, err := NewOllamaClient(cfg.Ollama.BaseURL, cfg.Ollama.Model, logger)
		if err != nil {
			return nil, err
		}
		available[ProviderOllama] = c
	}
	if cfg.MockFallback || cfg.PrimaryProvider == ProviderMock {
		available[ProviderMock] = NewMockClient()
	}

	if _, ok := available[cfg.PrimaryProvider]; !ok {
		lg.Warn("primary provider is not configured, starting with fallbacks", "primary", cfg.PrimaryProvider)
	}

	entries := PriorityOrder(cfg.PrimaryProvider, available)
	if len(entries) == 0 {
		return nil, fmt.Errorf("ai: %w", ErrNoBackends)
	}

	chain := NewChain(entries, logger)
	lg.Info("provider chain ready", "order", chain.IDs())
	return chain, nil
}
