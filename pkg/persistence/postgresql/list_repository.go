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

// ActionListRepository handles action-list database operations.
type ActionListRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewActionListRepository creates a new action-list repository.
func NewActionListRepository(db *sql.DB, logger *slog.Logger) *ActionListRepository {
	return &ActionListRepository{db: db, logger: logger}
}

// ListByOwner returns all lists owned by one user, oldest first.
func (r *ActionListRepository) ListByOwner(ctx context.Context, owner string) ([]*models.ActionList, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, owner, created_at, updated_at FROM action_lists WHERE owner = $1 ORDER BY created_at ASC",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query action lists: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	lists := make([]*models.ActionList, 0)

	for rows.Next() {
		var list models.ActionList

		err := rows.Scan(&list.ID, &list.Name, &list.Owner, &list.CreatedAt, &list.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action list: %w", err)
		}

		lists = append(lists, &list)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating action lists: %w", err)
	}

	return lists, nil
}

// GetByID returns a list by id, or (nil, nil) when absent.
func (r *ActionListRepository) GetByID(ctx context.Context, id string) (*models.ActionList, error) {
	var list models.ActionList

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, owner, created_at, updated_at FROM action_lists WHERE id = $1", id,
	).Scan(&list.ID, &list.Name, &list.Owner, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan action list: %w", err)
	}

	return &list, nil
}

// Save upserts an action list, assigning id and timestamps when missing.
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

	query := `
		INSERT INTO action_lists (id, name, owner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, list.ID, list.Name, list.Owner, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save action list %s: %w", list.ID, err)
	}

	return nil
}

// Delete removes an action list. Items keep their list_id; dangling
// references are tolerated by the read side.
func (r *ActionListRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM action_lists WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete action list %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete action list %s: %w", id, err)
	}

	if affected == 0 {
		return fmt.Errorf("delete action list %s: %w", id, persistence.ErrActionListNotFound)
	}

	return nil
}

// ReassignOwner moves all lists from one owner to another.
func (r *ActionListRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE action_lists SET owner = $1, updated_at = $2 WHERE owner = $3",
		to, time.Now().UTC(), from,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign action lists from %s: %w", from, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reassigned action lists: %w", err)
	}

	return affected, nil
}
