package ai

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/config"
)

func entryIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestPriorityOrder(t *testing.T) {
	all := map[string]AI{
		ProviderOpenAI:    stubBackend{},
		ProviderAnthropic: stubBackend{},
		ProviderGemini:    stubBackend{},
		ProviderOllama:    stubBackend{},
		ProviderMock:      stubBackend{},
	}

	tests := []struct {
		name      string
		primary   string
		available map[string]AI
		want      []string
	}{
		{
			name:      "openai primary",
			primary:   ProviderOpenAI,
			available: all,
			want:      []string{"openai", "anthropic", "gemini", "ollama", "mock"},
		},
		{
			name:      "gemini primary moves to the front",
			primary:   ProviderGemini,
			available: all,
			want:      []string{"gemini", "openai", "anthropic", "ollama", "mock"},
		},
		{
			name:    "unconfigured providers are skipped",
			primary: ProviderAnthropic,
			available: map[string]AI{
				ProviderOllama: stubBackend{},
				ProviderMock:   stubBackend{},
			},
			want: []string{"ollama", "mock"},
		},
		{
			name:    "no mock present",
			primary: ProviderOllama,
			available: map[string]AI{
				ProviderOllama: stubBackend{},
				ProviderOpenAI: stubBackend{},
			},
			want: []string{"ollama", "openai"},
		},
		{
			name:      "mock primary is mock only",
			primary:   ProviderMock,
			available: all,
			want:      []string{"mock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryIDs(PriorityOrder(tt.primary, tt.available))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PriorityOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildChain(t *testing.T) {
	t.Run("offline uses mock only", func(t *testing.T) {
		cfg := &config.Config{OfflineMode: true, PrimaryProvider: ProviderOpenAI, OpenAI: config.ProviderConfig{APIKey: "sk"}}
		chain, err := BuildChain(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := chain.IDs(); !reflect.DeepEqual(got, []string{"mock"}) {
			t.Errorf("IDs() = %v", got)
		}
	})

	t.Run("configured providers in order", func(t *testing.T) {
		cfg := &config.Config{
			PrimaryProvider: ProviderAnthropic,
			MockFallback:    true,
			OpenAI:          config.ProviderConfig{APIKey: "sk-openai"},
			Anthropic:       config.ProviderConfig{APIKey: "sk-ant"},
			Ollama:          config.ProviderConfig{BaseURL: "http://localhost:11434"},
		}
		chain, err := BuildChain(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"anthropic", "openai", "ollama", "mock"}
		if got := chain.IDs(); !reflect.DeepEqual(got, want) {
			t.Errorf("IDs() = %v, want %v", got, want)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		cfg := &config.Config{PrimaryProvider: ProviderOpenAI}
		if _, err := BuildChain(cfg, nil); !errors.Is(err, ErrNoBackends) {
			t.Errorf("error = %v, want ErrNoBackends", err)
		}
	})
}
