package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported upstream providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIURL      = "https://api.openai.com/v1/"
	defaultOpenAIModel    = "gpt-4o"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration

	// Upstream inference configuration. The credential is read per request
	// through Credential().
	Provider       string
	APIURL         string
	Model          string
	MaxTokens      int
	RequestTimeout time.Duration
	MaxImageBytes  int

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Provider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderAnthropic)),
		APIURL:     os.Getenv("LLM_API_URL"),
		Model:      os.Getenv("LLM_MODEL"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", defaultLogFormat()),
	}

	var err error
	if cfg.MaxTokens, err = getEnvInt("LLM_MAX_TOKENS", 2048); err != nil {
		return nil, err
	}
	if cfg.MaxImageBytes, err = getEnvInt("MAX_IMAGE_BYTES", 5*1024*1024); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.ApplyProviderDefaults()

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyProviderDefaults fills the upstream URL and model for the selected
// provider when they were not set explicitly.
func (c *Config) ApplyProviderDefaults() {
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIURL == "" {
			c.APIURL = defaultOpenAIURL
		}
		if c.Model == "" {
			c.Model = defaultOpenAIModel
		}
	default:
		if c.APIURL == "" {
			c.APIURL = defaultAnthropicURL
		}
		if c.Model == "" {
			c.Model = defaultAnthropicModel
		}
	}
}

// Overrides holds command line values that take precedence over the
// environment. Empty fields are ignored.
type Overrides struct {
	Host     string
	Port     string
	Provider string
	Model    string
	LogLevel string
}

// ApplyOverrides merges o into the config and validates the result. Switching
// provider drops URL and model defaults of the previous provider.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Host != "" {
		c.ServerHost = o.Host
	}
	if o.Port != "" {
		c.ServerPort = o.Port
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if p := strings.ToLower(o.Provider); p != "" && p != c.Provider {
		c.Provider = p
		c.APIURL = os.Getenv("LLM_API_URL")
		c.Model = os.Getenv("LLM_MODEL")
	}
	if o.Model != "" {
		c.Model = o.Model
	}

	c.ApplyProviderDefaults()

	if err := ValidateConfig(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// Production logs go to a collector, so they default to JSON
func defaultLogFormat() string {
	if IsProduction() {
		return "json"
	}
	return "text"
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
