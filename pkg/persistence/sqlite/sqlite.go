// Package sqlite provides an embedded single-file persistence backend
// using the pure-Go modernc driver. Records are stored as JSON documents
// in one table; filtering and sorting happen in memory, which is fine at
// the scale this backend targets (one machine, one user's plans).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // sqlite driver
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/sqlbase"
)

const (
	kindPlan = "business_plan"
	kindItem = "action_item"
	kindList = "action_list"
	kindUser = "user"
)

// Persistence implements persistence.Persistence over a SQLite file.
type Persistence struct {
	db       *sql.DB
	logger   *slog.Logger
	planRepo *PlanRepository
	itemRepo *ActionItemRepository
	listRepo *ActionListRepository
	userRepo *UserRepository
}

// NewPersistence opens (or creates) the database file and runs
// migrations. Pass ":memory:" for an in-memory database.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	path := strings.Replace(databaseURL, "sqlite://", "", 1)

	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = database.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := &store{db: database}

	return &Persistence{
		db:       database,
		logger:   logger,
		planRepo: &PlanRepository{store: store},
		itemRepo: &ActionItemRepository{store: store},
		listRepo: &ActionListRepository{store: store},
		userRepo: &UserRepository{store: store},
	}, nil
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS records (
				kind TEXT NOT NULL,
				id TEXT NOT NULL,
				owner TEXT NOT NULL DEFAULT '',
				data TEXT NOT NULL,
				PRIMARY KEY (kind, id)
			);

			CREATE INDEX IF NOT EXISTS idx_records_owner ON records (kind, owner);
		`,
	}
}

// Close closes the database.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database is reachable.
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
