package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	OpenRouter ProviderConfig
	Gemini     ProviderConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

// ProviderConfig is the per-provider key, model and optional endpoint.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses small, cheap models: question generation is short.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterBaseURL},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// section returns the ProviderConfig for name, or nil.
func (c *Config) section(name string) *ProviderConfig {
	switch name {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderOpenRouter:
		return &c.OpenRouter
	case ProviderGemini:
		return &c.Gemini
	}
	return nil
}

// envPrefix returns e.g. ADHYAYA_OPENAI for a provider name.
func envPrefix(name string) string {
	return "ADHYAYA_" + strings.ToUpper(name)
}

// ConfigFromEnv reads ADHYAYA_LLM_PROVIDER, ADHYAYA_LLM_TIMEOUT and
// ADHYAYA_<PROVIDER>_{API_KEY,MODEL,BASE_URL} over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("ADHYAYA_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if v := os.Getenv("ADHYAYA_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	for _, name := range []string{ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini} {
		sec, prefix := cfg.section(name), envPrefix(name)
		if v := os.Getenv(prefix + "_API_KEY"); v != "" {
			sec.APIKey = v
		}
		if v := os.Getenv(prefix + "_MODEL"); v != "" {
			sec.Model = v
		}
		if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
			sec.BaseURL = v
		}
	}
	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables, in the order
// Gemini, OpenAI, Anthropic, OpenRouter. It reports false when none is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, c := range []struct{ env, provider string }{
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	} {
		if k := os.Getenv(c.env); k != "" {
			cfg.Provider = c.provider
			cfg.section(c.provider).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	sec := c.section(c.Provider)
	if sec == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if sec.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
	}
	return nil
}
