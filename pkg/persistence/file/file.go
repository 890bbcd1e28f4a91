// Package file provides file-based JSON persistence, used for tests and
// zero-dependency local runs.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a directory of
// JSON documents, one file per record.
type Persistence struct {
	root     string
	planRepo *PlanRepository
	itemRepo *ActionItemRepository
	listRepo *ActionListRepository
	userRepo *UserRepository
}

// NewPersistence creates a file persistence layer rooted at root. The
// directory tree is created on demand.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:     cleanRoot,
		planRepo: &PlanRepository{dir: filepath.Join(cleanRoot, "business_plans")},
		itemRepo: &ActionItemRepository{dir: filepath.Join(cleanRoot, "action_items")},
		listRepo: &ActionListRepository{dir: filepath.Join(cleanRoot, "action_lists")},
		userRepo: &UserRepository{dir: filepath.Join(cleanRoot, "users")},
	}
}

// Close performs any necessary cleanup. Nothing to do for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory is usable.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(fp.root, 0o755)
	if err != nil {
		return fmt.Errorf("persistence root unusable: %w", err)
	}

	return nil
}

func (fp *Persistence) BusinessPlanRepository() persistence.BusinessPlanRepository {
	return fp.planRepo
}

func (fp *Persistence) ActionItemRepository() persistence.ActionItemRepository {
	return fp.itemRepo
}

func (fp *Persistence) ActionListRepository() persistence.ActionListRepository {
	return fp.listRepo
}

func (fp *Persistence) UserRepository() persistence.UserRepository {
	return fp.userRepo
}

// readDoc loads one JSON document into out. Returns os.ErrNotExist when
// the record is absent.
func readDoc(dir, id string, out any) error {
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", id, err)
	}

	return nil
}

// writeDoc stores one JSON document, creating the directory on first use.
func writeDoc(dir, id string, in any) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", id, err)
	}

	err = os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", id, err)
	}

	return nil
}

// removeDoc deletes one document, reporting os.ErrNotExist when absent.
func removeDoc(dir, id string) error {
	return os.Remove(filepath.Join(dir, id+".json"))
}

// eachDoc calls fn for every document in dir. A missing directory is an
// empty collection, not an error.
func eachDoc(dir string, fn func(id string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		err := fn(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return err
		}
	}

	return nil
}
