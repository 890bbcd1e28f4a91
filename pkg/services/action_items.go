package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitgar/business-coach-sub001/pkg/category"
	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/events"
	"github.com/vitgar/business-coach-sub001/pkg/listcache"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

var (
	// ErrActionItemNotFound is returned when an action item is not found.
	ErrActionItemNotFound = persistence.ErrActionItemNotFound
	// ErrActionListNotFound is returned when an action list is not found.
	ErrActionListNotFound = persistence.ErrActionListNotFound
)

type ActionItems struct {
	persistence persistence.Persistence
	names       listcache.Cache
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewActionItems creates a new action item service. The list-name cache
// is a required dependency; use listcache.NewMemory for in-process runs.
func NewActionItems(
	p persistence.Persistence,
	names listcache.Cache,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *ActionItems {
	return &ActionItems{
		persistence: p,
		names:       names,
		publisher:   publisher,
		logger:      logger.With("module", "action-item-service"),
	}
}

// ListItemsRequest carries the action item listing filters. Category
// filtering happens here rather than in persistence because the child
// heuristic is string logic, not a storage concern.
type ListItemsRequest struct {
	Owner          string
	ConversationID string
	MessageID      string
	ParentID       *string
	ListID         *string
	Completed      *bool

	Category        string
	IncludeChildren bool
}

// ItemView is an action item enriched with its list's display name.
type ItemView struct {
	*models.ActionItem

	ListName string `json:"list_name,omitempty"`
}

// List retrieves action items matching every set filter, with the
// category filter applied on top and list names resolved through the
// cache.
func (s *ActionItems) List(ctx context.Context, req ListItemsRequest) ([]*ItemView, error) {
	opts := persistence.ListItemsOptions{
		Owner:          req.Owner,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		ParentID:       req.ParentID,
		ListID:         req.ListID,
		Completed:      req.Completed,
	}

	items, err := s.persistence.ActionItemRepository().List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}

	views := make([]*ItemView, 0, len(items))

	for _, item := range items {
		if !category.Matches(req.Category, item.Category, req.IncludeChildren) {
			continue
		}

		views = append(views, &ItemView{
			ActionItem: item,
			ListName:   s.listName(ctx, item.ListID),
		})
	}

	return views, nil
}

// listName resolves a list id through the cache, falling back to the
// repository on a miss. Unknown or deleted lists yield an empty name.
func (s *ActionItems) listName(ctx context.Context, listID *string) string {
	if listID == nil || *listID == "" {
		return ""
	}

	if name, ok := s.names.Get(ctx, *listID); ok {
		return name
	}

	list, err := s.persistence.ActionListRepository().GetByID(ctx, *listID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to resolve list name", "list_id", *listID, "error", err)

		return ""
	}

	if list == nil {
		return ""
	}

	s.names.Set(ctx, list.ID, list.Name)

	return list.Name
}

// CreateItemRequest carries a new action item. When Category is empty, a
// leading "[Category]" token in Content is parsed into the category
// field and stripped from the stored text.
type CreateItemRequest struct {
	Content        string
	Category       string
	Owner          string
	Ordinal        int
	Notes          string
	ParentID       *string
	ListID         *string
	ConversationID string
	MessageID      string
}

// Create adds a new action item.
func (s *ActionItems) Create(ctx context.Context, req CreateItemRequest) (*models.ActionItem, error) {
	content := req.Content
	cat := req.Category

	if cat == "" {
		cat, content = category.SplitPrefix(content)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValidationError("Create", "CONTENT_REQUIRED", "action item content is required", ErrContentRequired)
	}

	now := time.Now().UTC()
	item := &models.ActionItem{
		ID:             uuid.New().String(),
		Content:        content,
		Category:       strings.TrimSpace(cat),
		Ordinal:        req.Ordinal,
		Notes:          req.Notes,
		Owner:          req.Owner,
		ParentID:       req.ParentID,
		ListID:         req.ListID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.persistence.ActionItemRepository().Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}

	return item, nil
}

// UpdateItemRequest carries a partial update. Nil pointers leave the
// stored value untouched.
type UpdateItemRequest struct {
	Content  *string
	Category *string
	Ordinal  *int
	ListID   *string
	ParentID *string
}

// Update applies a partial update to an action item. New content is run
// through legacy prefix ingest unless the request sets the category
// explicitly.
func (s *ActionItems) Update(ctx context.Context, itemID string, req UpdateItemRequest) (*models.ActionItem, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		content := *req.Content

		if req.Category == nil {
			if cat, rest := category.SplitPrefix(content); cat != "" {
				item.Category = cat
				content = rest
			}
		}

		content = strings.TrimSpace(content)
		if content == "" {
			return nil, NewValidationError("Update", "CONTENT_REQUIRED", "action item content is required", ErrContentRequired)
		}

		item.Content = content
	}

	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}

	if req.Ordinal != nil {
		item.Ordinal = *req.Ordinal
	}

	if req.ListID != nil {
		if *req.ListID == "" {
			item.ListID = nil
		} else {
			item.ListID = req.ListID
		}
	}

	if req.ParentID != nil {
		if *req.ParentID == "" {
			item.ParentID = nil
		} else {
			item.ParentID = req.ParentID
		}
	}

	item.UpdatedAt = time.Now().UTC()

	err = s.persistence.ActionItemRepository().Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}

	return item, nil
}

// ToggleComplete flips the completion flag of one item and only that
// item.
func (s *ActionItems) ToggleComplete(ctx context.Context, itemID string) (*models.ActionItem, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item.IsCompleted = !item.IsCompleted
	item.UpdatedAt = now

	if item.IsCompleted {
		item.CompletedAt = &now
	} else {
		item.CompletedAt = nil
	}

	err = s.persistence.ActionItemRepository().Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle action item: %w", err)
	}

	s.publish(ctx, item.ID, events.ActionItemCompleted{
		BaseEvent: events.NewBaseEvent(events.ActionItemCompletedEvent, item.Owner),
		ItemID:    item.ID,
		Category:  item.Category,
		Completed: item.IsCompleted,
		At:        now,
	})

	return item, nil
}

// SetNotes replaces the free-text notes of one item.
func (s *ActionItems) SetNotes(ctx context.Context, itemID, notes string) (*models.ActionItem, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Notes = notes
	item.UpdatedAt = time.Now().UTC()

	err = s.persistence.ActionItemRepository().Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to update action item notes: %w", err)
	}

	return item, nil
}

// Delete removes an action item by its ID.
func (s *ActionItems) Delete(ctx context.Context, itemID string) error {
	_, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return err
	}

	err = s.persistence.ActionItemRepository().Delete(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}

	return nil
}

// GetByID retrieves an action item by its ID.
func (s *ActionItems) GetByID(ctx context.Context, itemID string) (*models.ActionItem, error) {
	return s.fetchItem(ctx, itemID)
}

func (s *ActionItems) fetchItem(ctx context.Context, itemID string) (*models.ActionItem, error) {
	item, err := s.persistence.ActionItemRepository().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item == nil {
		return nil, ErrActionItemNotFound
	}

	return item, nil
}

// ListLists retrieves an owner's action lists.
func (s *ActionItems) ListLists(ctx context.Context, owner string) ([]*models.ActionList, error) {
	lists, err := s.persistence.ActionListRepository().ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list action lists: %w", err)
	}

	return lists, nil
}

// CreateList adds a new named action list.
func (s *ActionItems) CreateList(ctx context.Context, name, owner string) (*models.ActionList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("CreateList", "NAME_REQUIRED", "list name is required", ErrListNameRequired)
	}

	now := time.Now().UTC()
	list := &models.ActionList{
		ID:        uuid.New().String(),
		Name:      name,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.persistence.ActionListRepository().Save(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to create action list: %w", err)
	}

	s.names.Set(ctx, list.ID, list.Name)

	return list, nil
}

// RenameList changes a list's display name. The rename is the one
// mutation that can make cached names stale, so the cache entry is
// replaced here.
func (s *ActionItems) RenameList(ctx context.Context, listID, name string) (*models.ActionList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("RenameList", "NAME_REQUIRED", "list name is required", ErrListNameRequired)
	}

	list, err := s.persistence.ActionListRepository().GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list == nil {
		return nil, ErrActionListNotFound
	}

	list.Name = name
	list.UpdatedAt = time.Now().UTC()

	err = s.persistence.ActionListRepository().Save(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to rename action list: %w", err)
	}

	s.names.Invalidate(ctx, list.ID)
	s.names.Set(ctx, list.ID, list.Name)

	return list, nil
}

func (s *ActionItems) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
