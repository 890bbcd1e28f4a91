package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// PlanRepository implements plan storage over the document store.
type PlanRepository struct {
	store *store
}

func (r *PlanRepository) loadAll(ctx context.Context, owner string) ([]*models.BusinessPlan, error) {
	plans := make([]*models.BusinessPlan, 0)

	err := r.store.each(ctx, kindPlan, owner, func(data []byte) error {
		var plan models.BusinessPlan

		err := json.Unmarshal(data, &plan)
		if err != nil {
			return fmt.Errorf("failed to decode business plan: %w", err)
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
	plans, err := r.loadAll(ctx, opts.Owner)
	if err != nil {
		return nil, err
	}

	filtered := plans[:0]

	for _, plan := range plans {
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

	return &persistence.ListPlansResult{
		Plans:       append([]*models.BusinessPlan(nil), filtered[start:end]...),
		TotalCount:  total,
		HasNextPage: int64(end) < total,
	}, nil
}

// GetByID returns a plan by id, or (nil, nil) when absent.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*models.BusinessPlan, error) {
	var plan models.BusinessPlan

	err := r.store.get(ctx, kindPlan, id, &plan)
	if err != nil {
		if errors.Is(err, errNotFound) {
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
func (r *PlanRepository) Save(ctx context.Context, plan *models.BusinessPlan) error {
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

	return r.store.put(ctx, kindPlan, plan.ID, plan.Owner, plan)
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

	return r.store.put(ctx, kindPlan, plan.ID, plan.Owner, plan)
}

// ReassignOwner moves all plans from one owner to another.
func (r *PlanRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	plans, err := r.loadAll(ctx, from)
	if err != nil {
		return 0, err
	}

	var moved int64

	for _, plan := range plans {
		plan.Owner = to
		plan.UpdatedAt = time.Now().UTC()

		err := r.store.put(ctx, kindPlan, plan.ID, plan.Owner, plan)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}

// ActionItemRepository implements item storage over the document store.
type ActionItemRepository struct {
	store *store
}

// List applies the server-side filters in memory.
func (r *ActionItemRepository) List(ctx context.Context, opts persistence.ListItemsOptions) ([]*models.ActionItem, error) {
	items := make([]*models.ActionItem, 0)

	err := r.store.each(ctx, kindItem, opts.Owner, func(data []byte) error {
		var item models.ActionItem

		err := json.Unmarshal(data, &item)
		if err != nil {
			return fmt.Errorf("failed to decode action item: %w", err)
		}

		if opts.Matches(&item) {
			items = append(items, &item)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Ordinal != items[j].Ordinal {
			return items[i].Ordinal < items[j].Ordinal
		}

		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// GetByID returns an item by id, or (nil, nil) when absent.
func (r *ActionItemRepository) GetByID(ctx context.Context, id string) (*models.ActionItem, error) {
	var item models.ActionItem

	err := r.store.get(ctx, kindItem, id, &item)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &item, nil
}

// Save upserts an item, assigning id and timestamps when missing.
func (r *ActionItemRepository) Save(ctx context.Context, item *models.ActionItem) error {
	now := time.Now().UTC()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	item.UpdatedAt = now

	if item.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate action item ID: %w", err)
		}

		item.ID = id.String()
	}

	return r.store.put(ctx, kindItem, item.ID, item.Owner, item)
}

// Delete removes an action item.
func (r *ActionItemRepository) Delete(ctx context.Context, id string) error {
	err := r.store.delete(ctx, kindItem, id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return &persistence.ItemError{Op: "Delete", ItemID: id, Err: persistence.ErrActionItemNotFound}
		}

		return &persistence.ItemError{Op: "Delete", ItemID: id, Err: err}
	}

	return nil
}

// ReassignOwner moves all items from one owner to another.
func (r *ActionItemRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	items, err := r.List(ctx, persistence.ListItemsOptions{Owner: from})
	if err != nil {
		return 0, err
	}

	var moved int64

	for _, item := range items {
		item.Owner = to
		item.UpdatedAt = time.Now().UTC()

		err := r.store.put(ctx, kindItem, item.ID, item.Owner, item)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}

// ActionListRepository implements list storage over the document store.
type ActionListRepository struct {
	store *store
}

// ListByOwner returns all lists owned by one user, oldest first.
func (r *ActionListRepository) ListByOwner(ctx context.Context, owner string) ([]*models.ActionList, error) {
	lists := make([]*models.ActionList, 0)

	err := r.store.each(ctx, kindList, owner, func(data []byte) error {
		var list models.ActionList

		err := json.Unmarshal(data, &list)
		if err != nil {
			return fmt.Errorf("failed to decode action list: %w", err)
		}

		lists = append(lists, &list)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.Before(lists[j].CreatedAt)
	})

	return lists, nil
}

// GetByID returns a list by id, or (nil, nil) when absent.
func (r *ActionListRepository) GetByID(ctx context.Context, id string) (*models.ActionList, error) {
	var list models.ActionList

	err := r.store.get(ctx, kindList, id, &list)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &list, nil
}

// Save upserts a list, assigning id and timestamps when missing.
func (r *ActionListRepository) Save(ctx context.Context, list *models.ActionList) error {
	now := time.Now().UTC()

	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}

	list.UpdatedAt = now

	if list.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate action list ID: %w", err)
		}

		list.ID = id.String()
	}

	return r.store.put(ctx, kindList, list.ID, list.Owner, list)
}

// Delete removes an action list.
func (r *ActionListRepository) Delete(ctx context.Context, id string) error {
	err := r.store.delete(ctx, kindList, id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return fmt.Errorf("delete action list %s: %w", id, persistence.ErrActionListNotFound)
		}

		return fmt.Errorf("delete action list %s: %w", id, err)
	}

	return nil
}

// ReassignOwner moves all lists from one owner to another.
func (r *ActionListRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	lists, err := r.ListByOwner(ctx, from)
	if err != nil {
		return 0, err
	}

	var moved int64

	for _, list := range lists {
		list.Owner = to
		list.UpdatedAt = time.Now().UTC()

		err := r.store.put(ctx, kindList, list.ID, list.Owner, list)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}

// UserRepository implements user storage over the document store.
type UserRepository struct {
	store *store
}

// GetByID returns a user by id, or (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.store.get(ctx, kindUser, id, &user)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

// Save upserts a user record.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	user.UpdatedAt = now

	return r.store.put(ctx, kindUser, user.ID, user.ID, user)
}
