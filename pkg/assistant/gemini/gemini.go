// Package gemini implements the assistant backend on Google's Gemini
// API, for deployments that run without the dedicated completion
// service.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/vitgar/business-coach-sub001/pkg/assistant"
)

const defaultModel = "gemini-2.0-flash"

type Assistant struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewAssistant(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Assistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Assistant{
		client: client,
		model:  model,
		logger: logger.With("module", "assistant-gemini"),
	}, nil
}

func (a *Assistant) Complete(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))

	for _, msg := range req.Messages {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}

		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.systemPrompt(req), genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini completion failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		a.logger.WarnContext(ctx, "Gemini returned an empty completion", "section", req.SectionID)
	}

	reply, data := splitStructured(text, req.SectionID)

	return &assistant.Response{Reply: reply, Data: data}, nil
}

// systemPrompt appends an output contract so the model's structured
// answer can be recovered from a fenced JSON block.
func (a *Assistant) systemPrompt(req assistant.Request) string {
	var b strings.Builder

	b.WriteString(req.SystemPrompt)
	b.WriteString("\n\nWhen the conversation has gathered enough information, ")
	b.WriteString("append a fenced ```json block containing an object keyed by \"")
	b.WriteString(req.SectionID)
	b.WriteString("\" with the structured section fields.")

	return b.String()
}

// splitStructured separates the conversational reply from a trailing
// fenced JSON block, if the model produced one.
func splitStructured(text, sectionID string) (string, map[string]any) {
	start := strings.Index(text, "```json")
	if start < 0 {
		return strings.TrimSpace(text), map[string]any{}
	}

	rest := text[start+len("```json"):]

	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(text), map[string]any{}
	}

	var payload map[string]any

	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &payload); err != nil {
		return strings.TrimSpace(text), map[string]any{}
	}

	reply := strings.TrimSpace(text[:start] + rest[end+len("```"):])

	return reply, assistant.ExtractSectionData(payload, sectionID)
}
