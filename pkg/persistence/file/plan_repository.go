package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// PlanRepository stores business plans as one JSON file per plan.
type PlanRepository struct {
	dir string
}

func (r *PlanRepository) loadAll(_ context.Context) ([]*models.BusinessPlan, error) {
	plans := make([]*models.BusinessPlan, 0)

	err := eachDoc(r.dir, func(id string) error {
		var plan models.BusinessPlan

		err := readDoc(r.dir, id, &plan)
		if err != nil {
			return err
		}

		if plan.DeletedAt == nil {
			plans = append(plans, &plan)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return plans, nil
}

// List filters, sorts and pages plans in memory.
func (r *PlanRepository) List(ctx context.Context, opts persistence.ListPlansOptions) (*persistence.ListPlansResult, error) {
	plans, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := plans[:0]

	for _, plan := range plans {
		if opts.Owner != "" && plan.Owner != opts.Owner {
			continue
		}

		if opts.Status != nil && plan.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, plan)
	}

	err = persistence.SortPlans(filtered, opts.SortBy, opts.SortOrder)
	if err != nil {
		return nil, err
	}

	total := int64(len(filtered))

	start := opts.Offset
	if start > len(filtered) {
		start = len(filtered)
	}

	end := start + opts.Limit
	if opts.Limit <= 0 || end > len(filtered) {
		end = len(filtered)
	}

	page := append([]*models.BusinessPlan(nil), filtered[start:end]...)

	return &persistence.ListPlansResult{
		Plans:       page,
		TotalCount:  total,
		HasNextPage: int64(end) < total,
	}, nil
}

// GetByID returns a plan by id, or (nil, nil) when absent.
func (r *PlanRepository) GetByID(_ context.Context, id string) (*models.BusinessPlan, error) {
	var plan models.BusinessPlan

	err := readDoc(r.dir, id, &plan)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	if plan.DeletedAt != nil {
		return nil, nil
	}

	return &plan, nil
}

// Save upserts a plan, assigning id and timestamps when missing.
func (r *PlanRepository) Save(_ context.Context, plan *models.BusinessPlan) error {
	now := time.Now().UTC()

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}

	plan.UpdatedAt = now

	if plan.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate plan ID: %w", err)
		}

		plan.ID = id.String()
	}

	return writeDoc(r.dir, plan.ID, plan)
}

// Delete soft deletes a plan in place.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	plan, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if plan == nil {
		return persistence.NewPlanError("Delete", id, persistence.ErrPlanNotFound)
	}

	now := time.Now().UTC()
	plan.DeletedAt = &now

	return writeDoc(r.dir, plan.ID, plan)
}

// ReassignOwner moves all plans from one owner to another.
func (r *PlanRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	plans, err := r.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	var moved int64

	for _, plan := range plans {
		if plan.Owner != from {
			continue
		}

		plan.Owner = to
		plan.UpdatedAt = time.Now().UTC()

		err := writeDoc(r.dir, plan.ID, plan)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}
