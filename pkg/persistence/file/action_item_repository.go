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

// ActionItemRepository stores action items as one JSON file per item.
type ActionItemRepository struct {
	dir string
}

// List applies the server-side filters in memory, ordered by ordinal
// then creation time.
func (r *ActionItemRepository) List(_ context.Context, opts persistence.ListItemsOptions) ([]*models.ActionItem, error) {
	items := make([]*models.ActionItem, 0)

	err := eachDoc(r.dir, func(id string) error {
		var item models.ActionItem

		err := readDoc(r.dir, id, &item)
		if err != nil {
			return err
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
func (r *ActionItemRepository) GetByID(_ context.Context, id string) (*models.ActionItem, error) {
	var item models.ActionItem

	err := readDoc(r.dir, id, &item)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return &item, nil
}

// Save upserts an item, assigning id and timestamps when missing.
func (r *ActionItemRepository) Save(_ context.Context, item *models.ActionItem) error {
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

	return writeDoc(r.dir, item.ID, item)
}

// Delete removes an action item.
func (r *ActionItemRepository) Delete(_ context.Context, id string) error {
	err := removeDoc(r.dir, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

		err := writeDoc(r.dir, item.ID, item)
		if err != nil {
			return moved, err
		}

		moved++
	}

	return moved, nil
}
