// Package postgresql provides the PostgreSQL persistence implementation.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db       *sql.DB
	logger   *slog.Logger
	planRepo *PlanRepository
	itemRepo *ActionItemRepository
	listRepo *ActionListRepository
	userRepo *UserRepository
}

// NewPersistence opens a connection, runs migrations, and returns the
// ready persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:       database,
		logger:   logger,
		planRepo: NewPlanRepository(database, logger),
		itemRepo: NewActionItemRepository(database, logger),
		listRepo: NewActionListRepository(database, logger),
		userRepo: NewUserRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) BusinessPlanRepository() persistence.BusinessPlanRepository {
	return p.planRepo
}

func (p *Persistence) ActionItemRepository() persistence.ActionItemRepository {
	return p.itemRepo
}

func (p *Persistence) ActionListRepository() persistence.ActionListRepository {
	return p.listRepo
}

func (p *Persistence) UserRepository() persistence.UserRepository {
	return p.userRepo
}
