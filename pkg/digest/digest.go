// Package digest periodically summarizes each owner's open action items
// and publishes the summary on the event bus, for downstream reminder
// and reporting consumers.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/events"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

type Scheduler struct {
	schedule    string
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
	cron        *cron.Cron
}

// NewScheduler creates a digest scheduler. schedule is a standard
// five-field cron expression.
func NewScheduler(
	schedule string,
	p persistence.Persistence,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) (*Scheduler, error) {
	if schedule == "" {
		return nil, errors.New("digest schedule is required")
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid digest schedule: %w", err)
	}

	return &Scheduler{
		schedule:    schedule,
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "digest", "schedule", schedule),
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting action item digest scheduler")

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.Run(ctx); err != nil {
			s.logger.Error("Digest run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest job: %w", err)
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping action item digest scheduler")

	if s.cron != nil {
		stopCtx := s.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
		}
	}

	return nil
}

// Run executes one digest pass: open items grouped by owner, one event
// per owner.
func (s *Scheduler) Run(ctx context.Context) error {
	open := false

	items, err := s.persistence.ActionItemRepository().List(ctx, persistence.ListItemsOptions{
		Completed: &open,
	})
	if err != nil {
		return fmt.Errorf("failed to load open action items: %w", err)
	}

	byOwner := make(map[string][]*models.ActionItem)
	for _, item := range items {
		byOwner[item.Owner] = append(byOwner[item.Owner], item)
	}

	for owner, ownerItems := range byOwner {
		digest := buildDigest(owner, ownerItems)

		if err := s.publisher.Publish(ctx, owner, digest); err != nil {
			s.logger.Warn("Failed to publish digest", "owner", owner, "error", err)

			continue
		}
	}

	s.logger.Info("Published action item digests", "owners", len(byOwner), "open_items", len(items))

	return nil
}

func buildDigest(owner string, items []*models.ActionItem) events.ActionItemsDigest {
	byCategory := make(map[string]int)

	var oldest *time.Time

	for _, item := range items {
		if item.Category != "" {
			byCategory[item.Category]++
		}

		if oldest == nil || item.CreatedAt.Before(*oldest) {
			created := item.CreatedAt
			oldest = &created
		}
	}

	return events.ActionItemsDigest{
		BaseEvent:  events.NewBaseEvent(events.ActionItemsDigestEvent, owner),
		OpenCount:  len(items),
		ByCategory: byCategory,
		OldestOpen: oldest,
	}
}
