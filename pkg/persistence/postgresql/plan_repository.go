package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// PlanRepository handles business-plan database operations.
type PlanRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *sql.DB, logger *slog.Logger) *PlanRepository {
	return &PlanRepository{db: db, logger: logger}
}

const planColumns = `
			id
		  , title
		  , status
		  , owner
		  , content
		  , details
		  , metadata
		  , created_at
		  , updated_at
		  , deleted_at
`

var planSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// List returns one page of plans matching the options.
func (r *PlanRepository) List(ctx context.Context, opts persistence.ListPlansOptions) (*persistence.ListPlansResult, error) {
	sortColumn, ok := planSortFields[opts.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", persistence.ErrInvalidSortField, opts.SortBy)
	}

	direction := "DESC"
	if opts.SortOrder == "asc" {
		direction = "ASC"
	}

	where := "deleted_at IS NULL"
	args := []any{}

	if opts.Owner != "" {
		args = append(args, opts.Owner)
		where += fmt.Sprintf(" AND owner = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM business_plans WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count business plans: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(
		"SELECT %s FROM business_plans WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		planColumns, where, sortColumn, direction, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query business plans: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	plans := make([]*models.BusinessPlan, 0)

	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business plan: %w", err)
		}

		plans = append(plans, plan)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating business plans: %w", err)
	}

	return &persistence.ListPlansResult{
		Plans:       plans,
		TotalCount:  total,
		HasNextPage: int64(opts.Offset+len(plans)) < total,
	}, nil
}

// GetByID returns a plan by id, or (nil, nil) when absent.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*models.BusinessPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM business_plans WHERE id = $1 AND deleted_at IS NULL", planColumns)

	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan business plan: %w", err)
	}

	return plan, nil
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

	contentJSON, err := json.Marshal(orEmptyContent(plan.Content))
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	detailsJSON, err := json.Marshal(orEmptyDetails(plan.Details))
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	metadataJSON, err := json.Marshal(plan.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO business_plans (id, title, status, owner, content, details, metadata, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			owner = EXCLUDED.owner,
			content = EXCLUDED.content,
			details = EXCLUDED.details,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Title,
		string(plan.Status),
		plan.Owner,
		contentJSON,
		detailsJSON,
		metadataJSON,
		plan.CreatedAt,
		plan.UpdatedAt,
		plan.DeletedAt,
	)
	if err != nil {
		return persistence.NewPlanError("Save", plan.ID, err)
	}

	return nil
}

// Delete soft deletes a plan by setting deleted_at.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE business_plans SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		time.Now().UTC(), id,
	)
	if err != nil {
		return persistence.NewPlanError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewPlanError("Delete", id, err)
	}

	if affected == 0 {
		return persistence.NewPlanError("Delete", id, persistence.ErrPlanNotFound)
	}

	return nil
}

// ReassignOwner moves all plans from one owner to another.
func (r *PlanRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE business_plans SET owner = $1, updated_at = $2 WHERE owner = $3",
		to, time.Now().UTC(), from,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign plans from %s: %w", from, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reassigned plans: %w", err)
	}

	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.BusinessPlan, error) {
	var (
		plan         models.BusinessPlan
		status       string
		contentJSON  []byte
		detailsJSON  []byte
		metadataJSON []byte
	)

	err := row.Scan(
		&plan.ID,
		&plan.Title,
		&status,
		&plan.Owner,
		&contentJSON,
		&detailsJSON,
		&metadataJSON,
		&plan.CreatedAt,
		&plan.UpdatedAt,
		&plan.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.Status = models.PlanStatus(status)

	err = json.Unmarshal(contentJSON, &plan.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}

	err = json.Unmarshal(detailsJSON, &plan.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal details: %w", err)
	}

	if len(metadataJSON) > 0 {
		err = json.Unmarshal(metadataJSON, &plan.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &plan, nil
}

func orEmptyContent(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}

func orEmptyDetails(m map[string]map[string]any) map[string]map[string]any {
	if m == nil {
		return map[string]map[string]any{}
	}

	return m
}
