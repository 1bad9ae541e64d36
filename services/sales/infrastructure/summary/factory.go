// Package summary implements providers.Summarizer for the configured
// LLM_PROVIDER.
package summary

import (
	"context"
	"net/http"

	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/services/sales/domain/providers"
)

// New selects a summarizer from cfg. Incomplete provider settings fall back
// to Noop with a warning, so a report is always produced.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) providers.Summarizer {
	noop := Noop{DailyTarget: cfg.DailySalesTarget}

	switch cfg.LLMProvider {
	case config.ProviderOpenAICompatible:
		if cfg.APIKey == "" || cfg.LLMEndpoint == "" || cfg.LLMModel == "" {
			log.WarnContext(ctx, "summary provider incomplete, using fallback text",
				"provider", cfg.LLMProvider)
			return noop
		}
		return &OpenAICompatible{
			Endpoint:    cfg.LLMEndpoint,
			APIKey:      cfg.APIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Company:     cfg.CompanyName,
			DailyTarget: cfg.DailySalesTarget,
			Client:      &http.Client{Timeout: cfg.SummaryTimeout},
		}
	case config.ProviderGemini:
		g, err := NewGemini(ctx, GeminiOptions{
			APIKey:      cfg.APIKey,
			Model:       cfg.LLMModel,
			BaseURL:     cfg.LLMEndpoint,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Company:     cfg.CompanyName,
			DailyTarget: cfg.DailySalesTarget,
		})
		if err != nil {
			log.WarnContext(ctx, "summary provider unavailable, using fallback text",
				"provider", cfg.LLMProvider, "error", err)
			return noop
		}
		return g
	default:
		return noop
	}
}

// StatusLine describes the summary provider state for the status command.
func StatusLine(cfg *config.Config) string {
	switch cfg.LLMProvider {
	case config.ProviderNone:
		return "AI status: disabled (set LLM_PROVIDER=openai_compatible or gemini to enable)."
	case config.ProviderOpenAICompatible:
		if cfg.APIKey != "" && cfg.LLMEndpoint != "" && cfg.LLMModel != "" {
			return "AI status: enabled (openai_compatible)."
		}
		return "AI status: missing API_KEY / LLM_ENDPOINT / LLM_MODEL."
	case config.ProviderGemini:
		if cfg.APIKey != "" {
			return "AI status: enabled (gemini)."
		}
		return "AI status: missing API_KEY."
	default:
		return "AI status: unknown provider '" + cfg.LLMProvider + "'."
	}
}
