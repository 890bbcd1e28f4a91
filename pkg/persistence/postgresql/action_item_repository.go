package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// ActionItemRepository handles action-item database operations.
type ActionItemRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewActionItemRepository creates a new action-item repository.
func NewActionItemRepository(db *sql.DB, logger *slog.Logger) *ActionItemRepository {
	return &ActionItemRepository{db: db, logger: logger}
}

const itemColumns = `
			id
		  , content
		  , category
		  , is_completed
		  , ordinal
		  , notes
		  , owner
		  , parent_id
		  , list_id
		  , conversation_id
		  , message_id
		  , created_at
		  , updated_at
		  , completed_at
`

// List returns items matching the server-side filters, ordered by
// ordinal then creation time.
func (r *ActionItemRepository) List(ctx context.Context, opts persistence.ListItemsOptions) ([]*models.ActionItem, error) {
	where := "TRUE"
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(" AND "+clause, len(args))
	}

	if opts.Owner != "" {
		add("owner = $%d", opts.Owner)
	}

	if opts.ConversationID != "" {
		add("conversation_id = $%d", opts.ConversationID)
	}

	if opts.MessageID != "" {
		add("message_id = $%d", opts.MessageID)
	}

	if opts.ParentID != nil {
		add("parent_id = $%d", *opts.ParentID)
	}

	if opts.ListID != nil {
		add("list_id = $%d", *opts.ListID)
	}

	if opts.Completed != nil {
		add("is_completed = $%d", *opts.Completed)
	}

	query := fmt.Sprintf("SELECT %s FROM action_items WHERE %s ORDER BY ordinal ASC, created_at ASC", itemColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query action items: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	items := make([]*models.ActionItem, 0)

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}

		items = append(items, item)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating action items: %w", err)
	}

	return items, nil
}

// GetByID returns an item by id, or (nil, nil) when absent.
func (r *ActionItemRepository) GetByID(ctx context.Context, id string) (*models.ActionItem, error) {
	query := fmt.Sprintf("SELECT %s FROM action_items WHERE id = $1", itemColumns)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan action item: %w", err)
	}

	return item, nil
}

// Save upserts an action item, assigning id and timestamps when missing.
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

	query := `
		INSERT INTO action_items (
			id, content, category, is_completed, ordinal, notes, owner,
			parent_id, list_id, conversation_id, message_id,
			created_at, updated_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			is_completed = EXCLUDED.is_completed,
			ordinal = EXCLUDED.ordinal,
			notes = EXCLUDED.notes,
			owner = EXCLUDED.owner,
			parent_id = EXCLUDED.parent_id,
			list_id = EXCLUDED.list_id,
			conversation_id = EXCLUDED.conversation_id,
			message_id = EXCLUDED.message_id,
			updated_at = EXCLUDED.updated_at,
			completed_at = EXCLUDED.completed_at
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Content,
		item.Category,
		item.IsCompleted,
		item.Ordinal,
		item.Notes,
		item.Owner,
		item.ParentID,
		item.ListID,
		item.ConversationID,
		item.MessageID,
		item.CreatedAt,
		item.UpdatedAt,
		item.CompletedAt,
	)
	if err != nil {
		return &persistence.ItemError{Op: "Save", ItemID: item.ID, Err: err}
	}

	return nil
}

// Delete removes an action item.
func (r *ActionItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM action_items WHERE id = $1", id)
	if err != nil {
		return &persistence.ItemError{Op: "Delete", ItemID: id, Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &persistence.ItemError{Op: "Delete", ItemID: id, Err: err}
	}

	if affected == 0 {
		return &persistence.ItemError{Op: "Delete", ItemID: id, Err: persistence.ErrActionItemNotFound}
	}

	return nil
}

// ReassignOwner moves all items from one owner to another.
func (r *ActionItemRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE action_items SET owner = $1, updated_at = $2 WHERE owner = $3",
		to, time.Now().UTC(), from,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign action items from %s: %w", from, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reassigned action items: %w", err)
	}

	return affected, nil
}

func scanItem(row rowScanner) (*models.ActionItem, error) {
	var item models.ActionItem

	err := row.Scan(
		&item.ID,
		&item.Content,
		&item.Category,
		&item.IsCompleted,
		&item.Ordinal,
		&item.Notes,
		&item.Owner,
		&item.ParentID,
		&item.ListID,
		&item.ConversationID,
		&item.MessageID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &item, nil
}
