package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every setting the relay server needs.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Database DatabaseConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		LLM:      llm,
		Database: loadDatabaseConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	if strings.Contains(port, ":") {
		// Accept ":3000" or "127.0.0.1:3000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LLMConfig describes the upstream completion API.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	// TimeoutSeconds bounds an upstream call when positive. Zero keeps
	// the historical behavior of waiting indefinitely.
	TimeoutSeconds int
}

// Enabled reports whether an upstream credential is present.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadLLMConfig() (LLMConfig, error) {
	maxTokens := 1000
	if override, err := parseOptionalIntEnv("LLM_MAX_TOKENS"); err != nil {
		return LLMConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return LLMConfig{}, fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", *override)
		}
		maxTokens = *override
	}

	temperature := 0.7
	if override, err := parseOptionalFloatEnv("LLM_TEMPERATURE"); err != nil {
		return LLMConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	timeout := 0
	if override, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS"); err != nil {
		return LLMConfig{}, err
	} else if override != nil {
		timeout = *override
	}

	return LLMConfig{
		APIKey:         strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		BaseURL:        getEnvOrDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		Model:          getEnvOrDefault("LLM_MODEL", "claude-3-haiku-20240307"),
		MaxTokens:      maxTokens,
		Temperature:    temperature,
		TimeoutSeconds: timeout,
	}, nil
}

// DatabaseConfig describes the history store. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
