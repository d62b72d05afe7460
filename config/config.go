// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Providers accepted by Load.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// Settings holds everything needed to assemble the agent and its server.
type Settings struct {
	// Provider selects the inference backend: "groq" or "anthropic".
	Provider string
	// ModelName overrides the provider's default model when non-empty.
	ModelName string

	GroqAPIKey      string
	AnthropicAPIKey string
	FinnhubAPIKey   string
	TavilyAPIKey    string

	// Addr is the HTTP listen address.
	Addr string

	DecisionTemperature  float64
	SynthesisTemperature float64
	MaxConcurrentTools   int
}

// Load reads settings from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		Provider:             getenv("LLM_PROVIDER", ProviderGroq),
		ModelName:            os.Getenv("LLM_MODEL_NAME"),
		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		FinnhubAPIKey:        os.Getenv("FINNHUB_API_KEY"),
		TavilyAPIKey:         os.Getenv("TAVILY_API_KEY"),
		Addr:                 getenv("LISTEN_ADDR", ":8000"),
		DecisionTemperature:  getenvFloat("DECISION_TEMPERATURE", 0.7),
		SynthesisTemperature: getenvFloat("SYNTHESIS_TEMPERATURE", 0.3),
		MaxConcurrentTools:   getenvInt("MAX_CONCURRENT_TOOLS", 4),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.Provider {
	case ProviderGroq:
		if s.GroqAPIKey == "" {
			return fmt.Errorf("config: GROQ_API_KEY is required when LLM_PROVIDER=%s", ProviderGroq)
		}
	case ProviderAnthropic:
		if s.AnthropicAPIKey == "" {
			return fmt.Errorf("config: ANTHROPIC_API_KEY is required when LLM_PROVIDER=%s", ProviderAnthropic)
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", s.Provider)
	}
	if s.MaxConcurrentTools < 1 {
		return fmt.Errorf("config: MAX_CONCURRENT_TOOLS must be at least 1, got %d", s.MaxConcurrentTools)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
