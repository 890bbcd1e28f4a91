package file

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
)

func newPlan(id, title, owner string) *models.BusinessPlan {
	now := time.Now().UTC()

	return &models.BusinessPlan{
		ID:        id,
		Title:     title,
		Owner:     owner,
		Status:    models.PlanStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())
	require.NoError(t, p.HealthCheck(t.Context()))
	require.NoError(t, p.Close(t.Context()))
}

func TestPersistence_FileURLPrefix(t *testing.T) {
	p := NewPersistence("file://" + t.TempDir())
	require.NoError(t, p.HealthCheck(t.Context()))
}

func TestPlanRepository_SaveAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.BusinessPlanRepository()

	plan := newPlan("plan-1", "Bakery Plan", "user-1")
	plan.SetSection("vision", "## Vision", map[string]any{"vision_statement": "x"})
	require.NoError(t, repo.Save(t.Context(), plan))

	loaded, err := repo.GetByID(t.Context(), "plan-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Bakery Plan", loaded.Title)

	markdown, data := loaded.SectionContent("vision")
	assert.Equal(t, "## Vision", markdown)
	assert.Equal(t, "x", data["vision_statement"])
}

func TestPlanRepository_GetMissing(t *testing.T) {
	p := NewPersistence(t.TempDir())

	loaded, err := p.BusinessPlanRepository().GetByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPlanRepository_ListFiltersAndPages(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.BusinessPlanRepository()

	require.NoError(t, repo.Save(t.Context(), newPlan("plan-a", "Alpha", "user-1")))
	require.NoError(t, repo.Save(t.Context(), newPlan("plan-b", "Beta", "user-1")))
	require.NoError(t, repo.Save(t.Context(), newPlan("plan-c", "Gamma", "user-2")))

	result, err := repo.List(t.Context(), persistence.ListPlansOptions{
		Owner:     "user-1",
		Limit:     1,
		SortBy:    "title",
		SortOrder: "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalCount)
	assert.True(t, result.HasNextPage)
	require.Len(t, result.Plans, 1)
	assert.Equal(t, "Alpha", result.Plans[0].Title)

	// Second page.
	result, err = repo.List(t.Context(), persistence.ListPlansOptions{
		Owner:     "user-1",
		Limit:     1,
		Offset:    1,
		SortBy:    "title",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.False(t, result.HasNextPage)
	require.Len(t, result.Plans, 1)
	assert.Equal(t, "Beta", result.Plans[0].Title)
}

func TestPlanRepository_ListByStatus(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.BusinessPlanRepository()

	archived := newPlan("plan-a", "Old Plan", "user-1")
	archived.Status = models.PlanStatusArchived
	require.NoError(t, repo.Save(t.Context(), archived))
	require.NoError(t, repo.Save(t.Context(), newPlan("plan-b", "New Plan", "user-1")))

	status := models.PlanStatusArchived
	result, err := repo.List(t.Context(), persistence.ListPlansOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, result.Plans, 1)
	assert.Equal(t, "plan-a", result.Plans[0].ID)
}

func TestPlanRepository_Delete(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.BusinessPlanRepository()

	require.NoError(t, repo.Save(t.Context(), newPlan("plan-1", "Bakery Plan", "user-1")))
	require.NoError(t, repo.Delete(t.Context(), "plan-1"))

	loaded, err := repo.GetByID(t.Context(), "plan-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestActionItemRepository_ListFilters(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.ActionItemRepository()

	now := time.Now().UTC()
	listID := "list-1"
	done := &models.ActionItem{
		ID: "item-done", Content: "Done task", Owner: "user-1",
		IsCompleted: true, CompletedAt: &now, CreatedAt: now, UpdatedAt: now,
	}
	open := &models.ActionItem{
		ID: "item-open", Content: "Open task", Owner: "user-1",
		ListID: &listID, CreatedAt: now, UpdatedAt: now,
	}
	other := &models.ActionItem{
		ID: "item-other", Content: "Someone else's", Owner: "user-2",
		CreatedAt: now, UpdatedAt: now,
	}

	for _, item := range []*models.ActionItem{done, open, other} {
		require.NoError(t, repo.Save(t.Context(), item))
	}

	completed := false
	items, err := repo.List(t.Context(), persistence.ListItemsOptions{
		Owner:     "user-1",
		Completed: &completed,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-open", items[0].ID)

	items, err = repo.List(t.Context(), persistence.ListItemsOptions{ListID: &listID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-open", items[0].ID)
}

func TestActionItemRepository_ReassignOwner(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.ActionItemRepository()

	now := time.Now().UTC()
	for _, id := range []string{"item-1", "item-2"} {
		require.NoError(t, repo.Save(t.Context(), &models.ActionItem{
			ID: id, Content: "task", Owner: "anon-1", CreatedAt: now, UpdatedAt: now,
		}))
	}

	require.NoError(t, repo.Save(t.Context(), &models.ActionItem{
		ID: "item-3", Content: "task", Owner: "user-9", CreatedAt: now, UpdatedAt: now,
	}))

	moved, err := repo.ReassignOwner(t.Context(), "anon-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	items, err := repo.List(t.Context(), persistence.ListItemsOptions{Owner: "user-1"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	untouched, err := repo.GetByID(t.Context(), "item-3")
	require.NoError(t, err)
	assert.Equal(t, "user-9", untouched.Owner)
}

func TestActionListRepository_ListByOwner(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.ActionListRepository()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(t.Context(), &models.ActionList{
		ID: "list-1", Name: "Sales", Owner: "user-1", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.Save(t.Context(), &models.ActionList{
		ID: "list-2", Name: "Ops", Owner: "user-2", CreatedAt: now, UpdatedAt: now,
	}))

	lists, err := repo.ListByOwner(t.Context(), "user-1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Sales", lists[0].Name)
}

func TestUserRepository_SaveAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())
	repo := p.UserRepository()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(t.Context(), &models.User{
		ID: "anon-1", Placeholder: true, CreatedAt: now, UpdatedAt: now,
	}))

	user, err := repo.GetByID(t.Context(), "anon-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Placeholder)
	assert.False(t, user.Migrated())

	missing, err := repo.GetByID(t.Context(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
