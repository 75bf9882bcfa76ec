package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"superai/config"
	"superai/models"
)

const maxPromptLength = 4000

// ValidatePrompt rejects empty or oversized user messages before they reach
// a backend.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(prompt) > maxPromptLength {
		return fmt.Errorf("message exceeds %d characters", maxPromptLength)
	}
	return nil
}

// ValidateModelConfig checks a session configuration update against the
// allowed ranges.
func ValidateModelConfig(cfg models.ModelConfig) error {
	if !config.IsSupportedModel(cfg.Model) {
		return fmt.Errorf("unsupported model %q", cfg.Model)
	}
	if cfg.Temperature < config.TemperatureMin || cfg.Temperature > config.TemperatureMax {
		return fmt.Errorf("temperature must be between %g and %g",
			config.TemperatureMin, config.TemperatureMax)
	}
	if cfg.MaxTokens < config.MaxTokensMin || cfg.MaxTokens > config.MaxTokensMax {
		return fmt.Errorf("max_tokens must be between %d and %d",
			config.MaxTokensMin, config.MaxTokensMax)
	}
	return nil
}
