// Package assistant talks to the conversational completion backend that
// drives the coaching chat. The backend is a black box; its response
// shape has historically been unstable, so parsing is defensive.
package assistant

import "context"

// Message is one transcript entry.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request carries one conversational turn. SystemPrompt comes from the
// section registry; Help asks for concrete examples instead of the next
// question.
type Request struct {
	PlanID       string    `json:"business_plan_id"`
	SectionID    string    `json:"section"`
	SystemPrompt string    `json:"system_instructions"`
	Messages     []Message `json:"messages"`
	Help         bool      `json:"help,omitempty"`
}

// Response is the assistant's turn: a textual reply plus, when the
// conversation has produced enough material, the structured answer for
// the section. Data may be empty but is never nil.
type Response struct {
	Reply string         `json:"reply"`
	Data  map[string]any `json:"data"`
}

// Assistant is implemented by each completion backend.
type Assistant interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ExtractSectionData digs the structured section payload out of a raw
// response body. Known shapes are probed in fixed priority order: the
// section keyed at top level, then nested under "businessPlan", then
// under "content". A missing or malformed payload yields an empty map
// rather than an error.
func ExtractSectionData(payload map[string]any, sectionID string) map[string]any {
	if payload == nil {
		return map[string]any{}
	}

	probes := []map[string]any{payload}

	if nested, ok := payload["businessPlan"].(map[string]any); ok {
		probes = append(probes, nested)
	}

	if nested, ok := payload["content"].(map[string]any); ok {
		probes = append(probes, nested)
	}

	for _, probe := range probes {
		if data, ok := probe[sectionID].(map[string]any); ok {
			return data
		}
	}

	return map[string]any{}
}
