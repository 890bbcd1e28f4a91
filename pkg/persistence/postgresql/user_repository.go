package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitgar/business-coach-sub001/pkg/models"
)

// UserRepository handles user database operations.
type UserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// GetByID returns a user by id, or (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, placeholder, migrated_to, created_at, updated_at FROM users WHERE id = $1", id,
	).Scan(&user.ID, &user.Email, &user.Placeholder, &user.MigratedTo, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan user: %w", err)
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

	query := `
		INSERT INTO users (id, email, placeholder, migrated_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			placeholder = EXCLUDED.placeholder,
			migrated_to = EXCLUDED.migrated_to,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Placeholder, user.MigratedTo, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}

	return nil
}
