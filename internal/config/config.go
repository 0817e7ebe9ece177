package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider ids accepted as the primary provider.
var knownProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"gemini":    true,
	"ollama":    true,
	"mock":      true,
}

type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	Port string

	PrimaryProvider string
	OfflineMode     bool
	MockFallback    bool

	HistoryWindow   int
	Temperature     float32
	MaxOutputTokens int
	ToolActions     string
	SystemPrompt    string

	OpenAI    ProviderConfig
	Anthropic ProviderConfig
	Gemini    ProviderConfig
	Ollama    ProviderConfig

	AviationstackKey string

	DatabaseURL        string
	LogLevel           string
	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("primary_provider", "openai")
	v.SetDefault("offline_mode", false)
	v.SetDefault("mock_fallback", true)
	v.SetDefault("history_window", 12)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_output_tokens", 600)
	v.SetDefault("tool_actions", "full")
	v.SetDefault("system_prompt_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("database_url", "")
	v.SetDefault("aviationstack_api_key", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("ollama.base_url", "")
	v.SetDefault("ollama.model", "")
}

// Load reads .env (if present), an optional helpdesk.yaml and the environment.
// Values already Set on v (command line flags) take precedence.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	// LLM_TEMPERATURE -> llm.temperature, OPENAI_API_KEY -> openai.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("helpdesk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Port:             v.GetString("port"),
		PrimaryProvider:  strings.ToLower(strings.TrimSpace(v.GetString("primary_provider"))),
		OfflineMode:      v.GetBool("offline_mode"),
		MockFallback:     v.GetBool("mock_fallback"),
		HistoryWindow:    v.GetInt("history_window"),
		Temperature:      float32(v.GetFloat64("llm.temperature")),
		MaxOutputTokens:  v.GetInt("llm.max_output_tokens"),
		ToolActions:      strings.ToLower(strings.TrimSpace(v.GetString("tool_actions"))),
		AviationstackKey: strings.TrimSpace(v.GetString("aviationstack_api_key")),
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		LogLevel:         v.GetString("log_level"),
		OpenAI:           providerConfig(v, "openai"),
		Anthropic:        providerConfig(v, "anthropic"),
		Gemini:           providerConfig(v, "gemini"),
		Ollama:           providerConfig(v, "ollama"),
	}
	cfg.CORSAllowedOrigins = splitList(v.GetString("cors_allowed_origins"))

	if path := strings.TrimSpace(v.GetString("system_prompt_file")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading system prompt: %w", err)
		}
		cfg.SystemPrompt = strings.TrimSpace(string(b))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func providerConfig(v *viper.Viper, name string) ProviderConfig {
	return ProviderConfig{
		APIKey:  strings.TrimSpace(v.GetString(name + ".api_key")),
		Model:   strings.TrimSpace(v.GetString(name + ".model")),
		BaseURL: strings.TrimSpace(v.GetString(name + ".base_url")),
	}
}

func (c *Config) validate() error {
	if !knownProviders[c.PrimaryProvider] {
		return fmt.Errorf("config: unknown primary provider %q", c.PrimaryProvider)
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("config: history window must be at least 1, got %d", c.HistoryWindow)
	}
	if c.MaxOutputTokens < 1 {
		return fmt.Errorf("config: max output tokens must be positive, got %d", c.MaxOutputTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %.2f out of range [0, 2]", c.Temperature)
	}
	switch c.ToolActions {
	case "full", "legacy":
	default:
		return fmt.Errorf("config: unknown tool action set %q (want full or legacy)", c.ToolActions)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
