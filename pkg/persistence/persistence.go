// Package persistence provides the data storage abstraction for business
// plans, action items, lists, and users.
package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/vitgar/business-coach-sub001/pkg/models"
)

type Persistence interface {
	BusinessPlanRepository() BusinessPlanRepository
	ActionItemRepository() ActionItemRepository
	ActionListRepository() ActionListRepository
	UserRepository() UserRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ListPlansOptions narrows and pages a plan listing.
type ListPlansOptions struct {
	Limit     int
	Offset    int
	Owner     string
	Status    *models.PlanStatus
	SortBy    string
	SortOrder string
}

// ListPlansResult carries one page of plans plus paging metadata.
type ListPlansResult struct {
	Plans       []*models.BusinessPlan
	TotalCount  int64
	HasNextPage bool
}

type BusinessPlanRepository interface {
	List(ctx context.Context, opts ListPlansOptions) (*ListPlansResult, error)
	// GetByID returns (nil, nil) when no plan matches.
	GetByID(ctx context.Context, id string) (*models.BusinessPlan, error)
	Save(ctx context.Context, plan *models.BusinessPlan) error
	Delete(ctx context.Context, id string) error
	// ReassignOwner moves every plan owned by from onto to, returning the
	// number of plans moved.
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
}

// SortPlans orders plans in place by the requested field and direction.
// Shared by the backends that sort in memory; the sort-field allowlist
// matches the SQL backends.
func SortPlans(plans []*models.BusinessPlan, sortBy, sortOrder string) error {
	var less func(a, b *models.BusinessPlan) bool

	switch sortBy {
	case "", "created_at":
		less = func(a, b *models.BusinessPlan) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *models.BusinessPlan) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "title":
		less = func(a, b *models.BusinessPlan) bool { return a.Title < b.Title }
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortField, sortBy)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(plans[i], plans[j])
		}

		return less(plans[j], plans[i])
	})

	return nil
}

// ListItemsOptions carries the server-side action-item filters. Nil or
// empty values mean "no constraint". Category filtering is a service
// concern and does not appear here.
type ListItemsOptions struct {
	Owner          string
	ConversationID string
	MessageID      string
	ParentID       *string
	ListID         *string
	Completed      *bool
}

// Matches reports whether an item passes every set filter. Shared by the
// backends that filter in memory.
func (o ListItemsOptions) Matches(item *models.ActionItem) bool {
	if o.Owner != "" && item.Owner != o.Owner {
		return false
	}

	if o.ConversationID != "" && item.ConversationID != o.ConversationID {
		return false
	}

	if o.MessageID != "" && item.MessageID != o.MessageID {
		return false
	}

	if o.ParentID != nil && (item.ParentID == nil || *item.ParentID != *o.ParentID) {
		return false
	}

	if o.ListID != nil && (item.ListID == nil || *item.ListID != *o.ListID) {
		return false
	}

	if o.Completed != nil && item.IsCompleted != *o.Completed {
		return false
	}

	return true
}

type ActionItemRepository interface {
	List(ctx context.Context, opts ListItemsOptions) ([]*models.ActionItem, error)
	// GetByID returns (nil, nil) when no item matches.
	GetByID(ctx context.Context, id string) (*models.ActionItem, error)
	Save(ctx context.Context, item *models.ActionItem) error
	Delete(ctx context.Context, id string) error
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
}

type ActionListRepository interface {
	ListByOwner(ctx context.Context, owner string) ([]*models.ActionList, error)
	// GetByID returns (nil, nil) when no list matches.
	GetByID(ctx context.Context, id string) (*models.ActionList, error)
	Save(ctx context.Context, list *models.ActionList) error
	Delete(ctx context.Context, id string) error
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
}

type UserRepository interface {
	// GetByID returns (nil, nil) when no user matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
