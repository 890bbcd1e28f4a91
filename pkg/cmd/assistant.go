package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vitgar/business-coach-sub001/pkg/assistant"
	"github.com/vitgar/business-coach-sub001/pkg/assistant/gemini"
)

// NewAssistant selects the completion backend. A configured assistant
// URL wins; otherwise a Gemini API key selects the GenAI-backed
// implementation.
func NewAssistant(ctx context.Context, assistantURL, assistantKey, geminiKey, geminiModel string, logger *slog.Logger) (assistant.Assistant, error) {
	if assistantURL != "" {
		return assistant.NewHTTPClient(assistantURL, assistantKey, logger), nil
	}

	if geminiKey != "" {
		return gemini.NewAssistant(ctx, geminiKey, geminiModel, logger)
	}

	return nil, errors.New("no assistant backend configured: set an assistant URL or a Gemini API key")
}
