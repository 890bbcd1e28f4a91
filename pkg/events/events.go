// Package events defines event types for plan and action item lifecycle
// notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic.
const Topic = "coach.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Business plan lifecycle events.
	PlanCreatedEvent   EventType = "plan.created"
	PlanDeletedEvent   EventType = "plan.deleted"
	SectionSavedEvent  EventType = "plan.section.saved"
	GroupCompiledEvent EventType = "plan.group.compiled"

	// Action item events.
	ActionItemCompletedEvent EventType = "action_item.completed"
	ActionItemsDigestEvent   EventType = "action_items.digest"

	// Account events.
	UserMigratedEvent EventType = "user.migrated"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Owner     string         `json:"owner"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type PlanCreated struct {
	BaseEvent

	PlanID string `json:"plan_id"`
	Title  string `json:"title"`
}

func (p PlanCreated) GetType() EventType {
	return PlanCreatedEvent
}

type PlanDeleted struct {
	BaseEvent

	PlanID string `json:"plan_id"`
}

func (p PlanDeleted) GetType() EventType {
	return PlanDeletedEvent
}

type SectionSaved struct {
	BaseEvent

	PlanID    string `json:"plan_id"`
	SectionID string `json:"section_id"`
	// Chars is the length of the saved markdown, useful for
	// progress dashboards downstream.
	Chars int `json:"chars"`
}

func (s SectionSaved) GetType() EventType {
	return SectionSavedEvent
}

type GroupCompiled struct {
	BaseEvent

	PlanID   string   `json:"plan_id"`
	GroupID  string   `json:"group_id"`
	Sections []string `json:"sections"`
}

func (g GroupCompiled) GetType() EventType {
	return GroupCompiledEvent
}

type ActionItemCompleted struct {
	BaseEvent

	ItemID    string    `json:"item_id"`
	Category  string    `json:"category,omitempty"`
	Completed bool      `json:"completed"`
	At        time.Time `json:"at"`
}

func (a ActionItemCompleted) GetType() EventType {
	return ActionItemCompletedEvent
}

// ActionItemsDigest summarizes an owner's open items, published on a
// schedule.
type ActionItemsDigest struct {
	BaseEvent

	OpenCount  int            `json:"open_count"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	OldestOpen *time.Time     `json:"oldest_open,omitempty"`
}

func (a ActionItemsDigest) GetType() EventType {
	return ActionItemsDigestEvent
}

type UserMigrated struct {
	BaseEvent

	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	PlansMoved int64  `json:"plans_moved"`
	ItemsMoved int64  `json:"items_moved"`
	ListsMoved int64  `json:"lists_moved"`
}

func (u UserMigrated) GetType() EventType {
	return UserMigratedEvent
}

func NewBaseEvent(eventType EventType, owner string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Owner:     owner,
		Metadata:  make(map[string]any),
	}
}
