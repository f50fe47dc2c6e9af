package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in a Config
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

var (
	supportedProviders  = []string{ProviderAnthropic, ProviderOpenAI}
	supportedLogFormats = []string{"text", "json"}
)

// ValidateConfig checks the configuration and returns all violations at once
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if !contains(supportedProviders, cfg.Provider) {
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("must be one of %s", strings.Join(supportedProviders, ", "))})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{"SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"LLM_API_URL", fmt.Sprintf("invalid URL %q", cfg.APIURL)})
	}

	if cfg.Model == "" {
		errs = append(errs, ValidationError{"LLM_MODEL", "must not be empty"})
	}
	if cfg.MaxTokens <= 0 {
		errs = append(errs, ValidationError{"LLM_MAX_TOKENS", "must be positive"})
	}
	if cfg.MaxImageBytes <= 0 {
		errs = append(errs, ValidationError{"MAX_IMAGE_BYTES", "must be positive"})
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{"LLM_TIMEOUT", "must be positive"})
	}
	if !contains(supportedLogFormats, cfg.LogFormat) {
		errs = append(errs, ValidationError{"LOG_FORMAT", "must be text or json"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
