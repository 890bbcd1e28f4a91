package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/events"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

var (
	// ErrUserNotFound is returned when a user record is not found.
	ErrUserNotFound = persistence.ErrUserNotFound
)

// Migration re-homes the records of a legacy placeholder user onto an
// authenticated account. Placeholder users predate the login system;
// everything they own carries their throwaway id.
type Migration struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

func NewMigration(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Migration {
	return &Migration{
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "migration-service"),
	}
}

// MigrationResult reports what one migration moved. AlreadyMigrated is
// set when the placeholder had previously been migrated to the same
// target, which is treated as success.
type MigrationResult struct {
	FromUserID      string `json:"from_user_id"`
	ToUserID        string `json:"to_user_id"`
	PlansMoved      int64  `json:"plans_moved"`
	ItemsMoved      int64  `json:"items_moved"`
	ListsMoved      int64  `json:"lists_moved"`
	AlreadyMigrated bool   `json:"already_migrated"`
}

// MigrateUser moves every plan, action item, and action list owned by
// the placeholder user onto the target user, then retires the
// placeholder. Re-running with the same pair is a no-op success; a
// placeholder already migrated to a different account is a conflict.
//
// There is no cross-repository transaction. A partial failure leaves the
// placeholder unretired, so the client can re-invoke; ReassignOwner is
// a no-op for rows already moved.
func (s *Migration) MigrateUser(ctx context.Context, placeholderID, targetID string) (*MigrationResult, error) {
	if placeholderID == "" || targetID == "" || placeholderID == targetID {
		return nil, NewValidationError(
			"MigrateUser", "INVALID_MIGRATION",
			"migration needs distinct source and target user ids", ErrInvalidRequest,
		)
	}

	users := s.persistence.UserRepository()

	user, err := users.GetByID(ctx, placeholderID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.Placeholder {
		return nil, ErrUserNotPlaceholder
	}

	if user.Migrated() {
		if *user.MigratedTo == targetID {
			return &MigrationResult{
				FromUserID:      placeholderID,
				ToUserID:        targetID,
				AlreadyMigrated: true,
			}, nil
		}

		return nil, ErrMigratedElsewhere
	}

	if err := s.ensureTargetUser(ctx, targetID); err != nil {
		return nil, err
	}

	plans, err := s.persistence.BusinessPlanRepository().ReassignOwner(ctx, placeholderID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign business plans: %w", err)
	}

	items, err := s.persistence.ActionItemRepository().ReassignOwner(ctx, placeholderID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign action items: %w", err)
	}

	lists, err := s.persistence.ActionListRepository().ReassignOwner(ctx, placeholderID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign action lists: %w", err)
	}

	user.MigratedTo = &targetID
	user.UpdatedAt = time.Now().UTC()

	if err := users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to retire placeholder user: %w", err)
	}

	s.logger.InfoContext(ctx, "Migrated placeholder user",
		"from", placeholderID, "to", targetID,
		"plans", plans, "items", items, "lists", lists)

	s.publish(ctx, placeholderID, events.UserMigrated{
		BaseEvent:  events.NewBaseEvent(events.UserMigratedEvent, targetID),
		FromUserID: placeholderID,
		ToUserID:   targetID,
		PlansMoved: plans,
		ItemsMoved: items,
		ListsMoved: lists,
	})

	return &MigrationResult{
		FromUserID: placeholderID,
		ToUserID:   targetID,
		PlansMoved: plans,
		ItemsMoved: items,
		ListsMoved: lists,
	}, nil
}

// ensureTargetUser creates the target user record when it doesn't exist
// yet. The id comes from the authentication layer upstream of this API.
func (s *Migration) ensureTargetUser(ctx context.Context, targetID string) error {
	users := s.persistence.UserRepository()

	target, err := users.GetByID(ctx, targetID)
	if err != nil && !errors.Is(err, persistence.ErrUserNotFound) {
		return err
	}

	if target != nil {
		return nil
	}

	now := time.Now().UTC()

	err = users.Save(ctx, &models.User{
		ID:          targetID,
		Placeholder: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("failed to create target user: %w", err)
	}

	return nil
}

func (s *Migration) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
