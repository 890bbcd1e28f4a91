package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vitgar/business-coach-sub001/pkg/assistant"
	"github.com/vitgar/business-coach-sub001/pkg/sections"
)

// Conversation drives one coaching turn: it assembles the section's
// system instructions, calls the completion backend, and renders the
// structured answer into a markdown preview. Nothing is persisted here;
// saving a section is a separate, explicit operation.
type Conversation struct {
	assistant assistant.Assistant
	plans     *Plan
	logger    *slog.Logger
}

func NewConversation(a assistant.Assistant, plans *Plan, logger *slog.Logger) *Conversation {
	return &Conversation{
		assistant: a,
		plans:     plans,
		logger:    logger.With("module", "conversation-service"),
	}
}

// ConverseRequest is one user turn in a section questionnaire.
type ConverseRequest struct {
	PlanID    string
	SectionID string
	Messages  []assistant.Message
	Help      bool
}

// ConverseResult carries the assistant's reply, the structured section
// data (empty when the conversation hasn't produced any yet), and the
// data rendered through the section's formatter.
type ConverseResult struct {
	Reply   string         `json:"reply"`
	Data    map[string]any `json:"data"`
	Preview string         `json:"preview,omitempty"`
}

// Converse runs one turn. Cancelling ctx aborts the in-flight backend
// call.
func (s *Conversation) Converse(ctx context.Context, req ConverseRequest) (*ConverseResult, error) {
	cfg, err := sections.Get(req.SectionID)
	if err != nil {
		return nil, NewValidationError(
			"Converse", "UNKNOWN_SECTION",
			fmt.Sprintf("unknown section '%s'", req.SectionID), ErrUnknownSectionKey,
		)
	}

	if req.PlanID != "" {
		// Fail before the backend call when the plan is gone.
		if _, err := s.plans.FetchByID(ctx, req.PlanID); err != nil {
			return nil, err
		}
	}

	system := cfg.SystemPrompt
	if req.Help {
		// Help supplements the section framing, it does not replace it.
		system += "\n\n" + sections.HelpInstruction
	}

	resp, err := s.assistant.Complete(ctx, assistant.Request{
		PlanID:       req.PlanID,
		SectionID:    req.SectionID,
		SystemPrompt: system,
		Messages:     req.Messages,
		Help:         req.Help,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant completion failed: %w", err)
	}

	result := &ConverseResult{
		Reply: resp.Reply,
		Data:  resp.Data,
	}

	if len(resp.Data) > 0 {
		result.Preview = cfg.Format(resp.Data)
	}

	s.logger.DebugContext(ctx, "Completed conversation turn",
		"section", req.SectionID, "structured", len(resp.Data) > 0)

	return result, nil
}
