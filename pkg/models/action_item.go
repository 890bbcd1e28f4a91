package models

import "time"

// ActionItem is one todo-style item extracted from a coaching conversation.
// Category is a first-class field; a bracketed "[Category]" prefix in
// incoming text is parsed out at the service boundary and never stored
// inside Content.
type ActionItem struct {
	ID             string     `json:"id"`
	Content        string     `json:"content"  validate:"required"`
	Category       string     `json:"category,omitempty"`
	IsCompleted    bool       `json:"is_completed"`
	Ordinal        int        `json:"ordinal"`
	Notes          string     `json:"notes,omitempty"`
	Owner          string     `json:"owner"`
	ParentID       *string    `json:"parent_id,omitempty"`
	ListID         *string    `json:"list_id,omitempty"`
	ConversationID string     `json:"conversation_id,omitempty"`
	MessageID      string     `json:"message_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ActionList groups action items under a user-visible name. Names only
// change through an explicit rename, which is also the cache-bust point
// for the list-name cache.
type ActionList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=1"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
