package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// ActionListRepository stores action lists as one JSON file per list.
type ActionListRepository struct {
	dir string
}

// ListByOwner returns all lists owned by one user, oldest first.
func (r *ActionListRepository) ListByOwner(_ context.Context, owner string) ([]*models.ActionList, error) {
	lists := make([]*models.ActionList, 0)

	err := eachDoc(r.dir, func(id string) error {
		var list models.ActionList

		err := readDoc(r.dir, id, &list)
		if err != nil {
			return err
		}

		if list.Owner == owner {
			lists = append(lists, &list)
		}

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
func (r *ActionListRepository) GetByID(_ context.Context, id string) (*models.ActionList, error) {
	var list models.ActionList

	err := readDoc(r.dir, id, &list)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return &list, nil
}

// Save upserts a list, assigning id and timestamps when missing.
func (r *ActionListRepository) Save(_ context.Context, list *models.ActionList) error {
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

	return writeDoc(r.dir, list.ID, list)
}

// Delete removes an action list.
func (r *ActionListRepository) Delete(_ context.Context, id string) error {
	err := removeDoc(r.dir, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

		err := writeDoc(r.dir, list.ID, list)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}

// UserRepository stores users as one JSON file per user.
type UserRepository struct {
	dir string
}

// GetByID returns a user by id, or (nil, nil) when absent.
func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	var user models.User

	err := readDoc(r.dir, id, &user)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

// Save upserts a user record.
func (r *UserRepository) Save(_ context.Context, user *models.User) error {
	now := time.Now().UTC()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	user.UpdatedAt = now

	return writeDoc(r.dir, user.ID, user)
}
