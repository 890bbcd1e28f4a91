package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/events"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/sections"
)

var (
	// ErrPlanNotFound is returned when a business plan is not found.
	ErrPlanNotFound = persistence.ErrPlanNotFound
)

type Plan struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewPlan creates a new business plan service. publisher may be nil when
// no event bus is configured.
func NewPlan(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Plan {
	return &Plan{
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "plan-service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Plan) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListPlansRequest contains options for listing business plans.
type ListPlansRequest struct {
	Limit  int
	Offset int

	Owner  string
	Status *models.PlanStatus

	SortBy    string
	SortOrder string
}

// ListPlansResponse contains the result of listing business plans.
type ListPlansResponse struct {
	Plans       []*models.BusinessPlan `json:"business_plans"`
	TotalCount  int64                  `json:"total_count"`
	HasNextPage bool                   `json:"has_next_page"`
}

// List retrieves business plans with filtering, sorting, and pagination.
func (s *Plan) List(ctx context.Context, req ListPlansRequest) (*ListPlansResponse, error) {
	if err := s.validateListPlansRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListPlansOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		Owner:     req.Owner,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	result, err := s.persistence.BusinessPlanRepository().List(ctx, opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		return nil, fmt.Errorf("failed to list business plans: %w", err)
	}

	return &ListPlansResponse{
		Plans:       result.Plans,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

func (s *Plan) validateListPlansRequest(req *ListPlansRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "title"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListPlansRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListPlansRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.PlanStatus{
			models.PlanStatusDraft,
			models.PlanStatusComplete,
			models.PlanStatusArchived,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"validateListPlansRequest",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	if req.Owner != "" {
		req.Owner = strings.TrimSpace(req.Owner)
		if req.Owner == "" {
			return ErrEmptyOwnerID
		}
	}

	return nil
}

// FetchByID retrieves a business plan by its ID.
func (s *Plan) FetchByID(ctx context.Context, id string) (*models.BusinessPlan, error) {
	plan, err := s.persistence.BusinessPlanRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if plan == nil {
		return nil, ErrPlanNotFound
	}

	return plan, nil
}

// Create adds a new business plan.
func (s *Plan) Create(ctx context.Context, plan *models.BusinessPlan) (*models.BusinessPlan, error) {
	plan.Title = strings.TrimSpace(plan.Title)
	if plan.Title == "" {
		return nil, NewValidationError("Create", "TITLE_REQUIRED", "plan title is required", ErrTitleRequired)
	}

	now := time.Now().UTC()
	plan.ID = uuid.New().String()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if plan.Status == "" {
		plan.Status = models.PlanStatusDraft
	}

	err := s.persistence.BusinessPlanRepository().Save(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to create business plan: %w", err)
	}

	s.publish(ctx, plan.ID, events.PlanCreated{
		BaseEvent: events.NewBaseEvent(events.PlanCreatedEvent, plan.Owner),
		PlanID:    plan.ID,
		Title:     plan.Title,
	})

	return plan, nil
}

// UpdatePlanRequest carries a partial update. Nil pointers leave the
// stored value untouched.
type UpdatePlanRequest struct {
	Title    *string
	Status   *models.PlanStatus
	Metadata map[string]any
}

// Update applies a partial update to an existing plan.
func (s *Plan) Update(ctx context.Context, planID string, req UpdatePlanRequest) (*models.BusinessPlan, error) {
	plan, err := s.FetchByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewValidationError("Update", "TITLE_REQUIRED", "plan title is required", ErrTitleRequired)
		}

		plan.Title = title
	}

	if req.Status != nil {
		allowed := []models.PlanStatus{
			models.PlanStatusDraft,
			models.PlanStatusComplete,
			models.PlanStatusArchived,
		}
		if !slices.Contains(allowed, *req.Status) {
			return nil, NewValidationError(
				"Update", "INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status), ErrInvalidStatus,
			)
		}

		plan.Status = *req.Status
	}

	if req.Metadata != nil {
		plan.Metadata = req.Metadata
	}

	plan.UpdatedAt = time.Now().UTC()

	err = s.persistence.BusinessPlanRepository().Save(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to update business plan: %w", err)
	}

	return plan, nil
}

// Delete removes a business plan by its ID.
func (s *Plan) Delete(ctx context.Context, planID string) error {
	plan, err := s.FetchByID(ctx, planID)
	if err != nil {
		return err
	}

	err = s.persistence.BusinessPlanRepository().Delete(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to delete business plan: %w", err)
	}

	s.publish(ctx, plan.ID, events.PlanDeleted{
		BaseEvent: events.NewBaseEvent(events.PlanDeletedEvent, plan.Owner),
		PlanID:    plan.ID,
	})

	return nil
}

// SectionState is one section's saved markdown and structured data.
type SectionState struct {
	Key      string         `json:"key"`
	Markdown string         `json:"markdown"`
	Data     map[string]any `json:"data,omitempty"`
}

// GetSection returns the stored state for one section key. Keys may be
// plain section ids, group ids, or composite "group.section" keys.
func (s *Plan) GetSection(ctx context.Context, planID, key string) (*SectionState, error) {
	if !sections.ValidKey(key) {
		return nil, NewValidationError(
			"GetSection", "UNKNOWN_SECTION",
			fmt.Sprintf("unknown section key '%s'", key), ErrUnknownSectionKey,
		)
	}

	plan, err := s.FetchByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	markdown, data := plan.SectionContent(key)

	return &SectionState{Key: key, Markdown: markdown, Data: data}, nil
}

// SaveSection persists one section's markdown and structured data under
// its key, touching no other key. Structured payloads are checked
// against the section's JSON schema when one is declared.
func (s *Plan) SaveSection(ctx context.Context, planID, key, markdown string, data map[string]any) (*SectionState, error) {
	if !sections.ValidKey(key) {
		return nil, NewValidationError(
			"SaveSection", "UNKNOWN_SECTION",
			fmt.Sprintf("unknown section key '%s'", key), ErrUnknownSectionKey,
		)
	}

	if data != nil {
		if err := s.validateSectionPayload(key, data); err != nil {
			return nil, err
		}
	}

	plan, err := s.FetchByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	plan.SetSection(key, markdown, data)
	plan.UpdatedAt = time.Now().UTC()

	err = s.persistence.BusinessPlanRepository().Save(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to save section: %w", err)
	}

	s.publish(ctx, plan.ID, events.SectionSaved{
		BaseEvent: events.NewBaseEvent(events.SectionSavedEvent, plan.Owner),
		PlanID:    plan.ID,
		SectionID: key,
		Chars:     len(markdown),
	})

	return &SectionState{Key: key, Markdown: markdown, Data: data}, nil
}

func (s *Plan) validateSectionPayload(key string, data map[string]any) error {
	cfg, err := sections.SectionForKey(key)
	if err != nil {
		// Group ids have no schema of their own.
		return nil //nolint:nilerr
	}

	if cfg.Schema == "" {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(cfg.Schema),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate section payload: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}

		return NewValidationError(
			"SaveSection", "SCHEMA_VIOLATION",
			strings.Join(details, "; "), ErrSchemaViolation,
		)
	}

	return nil
}

// CompileGroupResult is the persisted aggregate group document.
type CompileGroupResult struct {
	GroupID  string   `json:"group_id"`
	Markdown string   `json:"markdown"`
	Sections []string `json:"sections"`
}

// CompileGroup concatenates the saved markdown of every member section
// into one document and persists it under the group key. Members without
// saved content are skipped; individual section saves are untouched.
func (s *Plan) CompileGroup(ctx context.Context, planID, groupID string) (*CompileGroupResult, error) {
	plan, err := s.FetchByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	group, err := sections.GetGroup(groupID)
	if err != nil {
		return nil, NewValidationError(
			"CompileGroup", "UNKNOWN_SECTION",
			fmt.Sprintf("unknown group '%s'", groupID), ErrUnknownSectionKey,
		)
	}

	included := make([]string, 0, len(group.Sections))

	compiled, err := sections.CompileGroup(groupID, func(key string) (string, bool) {
		text, _ := plan.SectionContent(key)
		if strings.TrimSpace(text) == "" {
			return "", false
		}

		included = append(included, key)

		return text, true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile group: %w", err)
	}

	plan.SetSection(groupID, compiled, nil)
	plan.UpdatedAt = time.Now().UTC()

	err = s.persistence.BusinessPlanRepository().Save(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to save compiled group: %w", err)
	}

	s.publish(ctx, plan.ID, events.GroupCompiled{
		BaseEvent: events.NewBaseEvent(events.GroupCompiledEvent, plan.Owner),
		PlanID:    plan.ID,
		GroupID:   groupID,
		Sections:  included,
	})

	return &CompileGroupResult{GroupID: groupID, Markdown: compiled, Sections: included}, nil
}

func (s *Plan) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
