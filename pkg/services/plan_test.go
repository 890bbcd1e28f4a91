package services

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/file"
	"github.com/vitgar/business-coach-sub001/pkg/sections"
)

func newPlanService(t *testing.T) *Plan {
	t.Helper()

	return NewPlan(file.NewPersistence(t.TempDir()), nil, slog.Default())
}

func TestPlan_Create(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{
		Title: "Corner Bike Shop",
		Owner: "user-1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.PlanStatusDraft, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestPlan_Create_TitleRequired(t *testing.T) {
	service := newPlanService(t)

	_, err := service.Create(t.Context(), &models.BusinessPlan{Title: "   ", Owner: "user-1"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, errors.Is(err, ErrTitleRequired))
}

func TestPlan_FetchByID_NotFound(t *testing.T) {
	service := newPlanService(t)

	_, err := service.FetchByID(t.Context(), "missing")
	assert.True(t, errors.Is(err, ErrPlanNotFound))
}

func TestPlan_List_DefaultsAndFilter(t *testing.T) {
	service := newPlanService(t)

	for _, title := range []string{"Plan One", "Plan Two"} {
		_, err := service.Create(t.Context(), &models.BusinessPlan{Title: title, Owner: "user-1"})
		require.NoError(t, err)
	}

	_, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Other Plan", Owner: "user-2"})
	require.NoError(t, err)

	result, err := service.List(t.Context(), ListPlansRequest{Owner: "user-1"})
	require.NoError(t, err)
	assert.Len(t, result.Plans, 2)
	assert.Equal(t, int64(2), result.TotalCount)
	assert.False(t, result.HasNextPage)
}

func TestPlan_List_InvalidSortField(t *testing.T) {
	service := newPlanService(t)

	_, err := service.List(t.Context(), ListPlansRequest{SortBy: "owner"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSortField))
}

func TestPlan_Update_Partial(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Before", Owner: "user-1"})
	require.NoError(t, err)

	status := models.PlanStatusComplete
	updated, err := service.Update(t.Context(), created.ID, UpdatePlanRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Before", updated.Title)
	assert.Equal(t, models.PlanStatusComplete, updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestPlan_Delete(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Doomed Plan", Owner: "user-1"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.True(t, errors.Is(err, ErrPlanNotFound))
}

func TestPlan_SaveSection_TouchesOnlyItsKey(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Sectioned Plan", Owner: "user-1"})
	require.NoError(t, err)

	_, err = service.SaveSection(t.Context(), created.ID, "vision", "Our vision text.", nil)
	require.NoError(t, err)

	_, err = service.SaveSection(t.Context(), created.ID, "mission", "Our mission text.", nil)
	require.NoError(t, err)

	plan, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Our vision text.", plan.Content["vision"])
	assert.Equal(t, "Our mission text.", plan.Content["mission"])
	assert.Len(t, plan.Content, 2)
}

func TestPlan_SaveSection_UnknownKey(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "A Plan", Owner: "user-1"})
	require.NoError(t, err)

	_, err = service.SaveSection(t.Context(), created.ID, "no-such-section", "text", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSectionKey))
}

func TestPlan_SaveSection_SchemaValidation(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Costed Plan", Owner: "user-1"})
	require.NoError(t, err)

	// amount must be a number
	_, err = service.SaveSection(t.Context(), created.ID, "startup-costs", "costs", map[string]any{
		"items": []any{
			map[string]any{"name": "Equipment", "amount": "five thousand"},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))

	_, err = service.SaveSection(t.Context(), created.ID, "startup-costs", "costs", map[string]any{
		"items": []any{
			map[string]any{"name": "Equipment", "amount": float64(5000)},
		},
		"total": float64(5000),
	})
	assert.NoError(t, err)
}

func TestPlan_GetSection(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "A Plan", Owner: "user-1"})
	require.NoError(t, err)

	_, err = service.SaveSection(t.Context(), created.ID, "vision", "Saved vision.", map[string]any{
		"vision_statement": "Saved vision.",
	})
	require.NoError(t, err)

	state, err := service.GetSection(t.Context(), created.ID, "vision")
	require.NoError(t, err)
	assert.Equal(t, "Saved vision.", state.Markdown)
	assert.Equal(t, "Saved vision.", state.Data["vision_statement"])

	// Unsaved sections come back empty, not as errors.
	state, err = service.GetSection(t.Context(), created.ID, "mission")
	require.NoError(t, err)
	assert.Empty(t, state.Markdown)
}

func TestPlan_CompileGroup(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "Grouped Plan", Owner: "user-1"})
	require.NoError(t, err)

	key := sections.CompositeKey("business-description", "mission")
	_, err = service.SaveSection(t.Context(), created.ID, key, "We fix bikes.", nil)
	require.NoError(t, err)

	key = sections.CompositeKey("business-description", "vision")
	_, err = service.SaveSection(t.Context(), created.ID, key, "A shop in every town.", nil)
	require.NoError(t, err)

	result, err := service.CompileGroup(t.Context(), created.ID, "business-description")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Markdown, "# Business Description"))
	assert.Contains(t, result.Markdown, "## Vision\n\nA shop in every town.")
	assert.Contains(t, result.Markdown, "## Mission\n\nWe fix bikes.")

	// Declared order: vision before mission.
	assert.Less(t,
		strings.Index(result.Markdown, "## Vision"),
		strings.Index(result.Markdown, "## Mission"))

	// The compiled document persists under the group key; the member
	// keys keep their own content.
	plan, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Markdown, plan.Content["business-description"])
	assert.Equal(t, "We fix bikes.", plan.Content["business-description.mission"])
}

func TestPlan_CompileGroup_Unknown(t *testing.T) {
	service := newPlanService(t)

	created, err := service.Create(t.Context(), &models.BusinessPlan{Title: "A Plan", Owner: "user-1"})
	require.NoError(t, err)

	_, err = service.CompileGroup(t.Context(), created.ID, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSectionKey))
}
