// Package web provides HTTP request and response types for the coaching API.
package web

import (
	"github.com/vitgar/business-coach-sub001/pkg/assistant"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/sections"
)

// CreateBusinessPlanRequest represents the request body for creating a new plan.
type CreateBusinessPlanRequest struct {
	Title    string         `json:"title"              validate:"required,min=3"`
	Owner    string         `json:"owner"              validate:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpdateBusinessPlanRequest represents a partial plan update.
// All fields are optional to support partial updates.
type UpdateBusinessPlanRequest struct {
	Title    *string            `json:"title,omitempty"    validate:"omitempty,min=3"`
	Status   *models.PlanStatus `json:"status,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

// SaveSectionRequest represents the request body for saving one section.
type SaveSectionRequest struct {
	Markdown string         `json:"markdown" validate:"required"`
	Data     map[string]any `json:"data,omitempty"`
}

// ChatRequest represents one conversational turn in a section questionnaire.
type ChatRequest struct {
	Messages []assistant.Message `json:"messages" validate:"required,min=1,dive"`
	Help     bool                `json:"help,omitempty"`
}

// CreateActionItemRequest represents the request body for creating a new action item.
type CreateActionItemRequest struct {
	Content        string  `json:"content"  validate:"required"`
	Category       string  `json:"category,omitempty"`
	Owner          string  `json:"owner"    validate:"required"`
	Ordinal        int     `json:"ordinal"`
	Notes          string  `json:"notes,omitempty"`
	ParentID       *string `json:"parent_id,omitempty"`
	ListID         *string `json:"list_id,omitempty"`
	ConversationID string  `json:"conversation_id,omitempty"`
	MessageID      string  `json:"message_id,omitempty"`
}

// UpdateActionItemRequest represents a partial action item update.
type UpdateActionItemRequest struct {
	Content  *string `json:"content,omitempty"  validate:"omitempty,min=1"`
	Category *string `json:"category,omitempty"`
	Ordinal  *int    `json:"ordinal,omitempty"`
	ListID   *string `json:"list_id,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// SetNotesRequest represents the request body for replacing an item's notes.
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// CreateActionListRequest represents the request body for creating a named list.
type CreateActionListRequest struct {
	Name  string `json:"name"  validate:"required,min=1"`
	Owner string `json:"owner" validate:"required"`
}

// RenameActionListRequest represents the request body for renaming a list.
type RenameActionListRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// MigrateUserRequest represents the request body for a placeholder migration.
type MigrateUserRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// SectionResponse is the client-facing view of a section configuration,
// with the non-serializable fields (formatter, schema) stripped.
type SectionResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	APIPath          string   `json:"api_path"`
	InitialPrompt    string   `json:"initial_prompt"`
	SuggestedPrompts []string `json:"suggested_prompts"`
	Fields           []string `json:"fields"`
}

// TransformSectionResponse converts a registry entry into its API view.
// The system prompt stays server-side.
func TransformSectionResponse(cfg sections.Config) SectionResponse {
	fields := make([]string, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields = append(fields, f.Key)
	}

	return SectionResponse{
		ID:               cfg.ID,
		Title:            cfg.Title,
		Description:      cfg.Description,
		APIPath:          cfg.APIPath,
		InitialPrompt:    cfg.InitialPrompt,
		SuggestedPrompts: cfg.SuggestedPrompts,
		Fields:           fields,
	}
}
