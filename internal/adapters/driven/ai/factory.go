package ai

import (
	"fmt"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Provider identifies an extraction backend.
type Provider string

const (
	ProviderGrok   Provider = "grok"
	ProviderOpenAI Provider = "openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Settings holds AI extractor configuration.
type Settings struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
}

// IsConfigured reports whether the settings describe a usable backend.
func (s Settings) IsConfigured() bool {
	return s.Provider != "" && s.APIKey != ""
}

// NewExtractor creates a fact extractor from settings. Unconfigured settings
// return (nil, nil); scans then rely on the pattern extractor alone.
func NewExtractor(settings Settings) (driven.FactExtractor, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case ProviderGrok:
		return NewGrokExtractor(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOpenAI:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = defaultOpenAIBaseURL
		}
		return NewGrokExtractor(settings.APIKey, settings.Model, baseURL)
	default:
		return nil, fmt.Errorf("%w: unknown ai provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}
