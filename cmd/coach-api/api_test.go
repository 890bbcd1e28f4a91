package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgar/business-coach-sub001/pkg/assistant"
	"github.com/vitgar/business-coach-sub001/pkg/listcache"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/file"
)

type cannedAssistant struct {
	response *assistant.Response
}

func (a *cannedAssistant) Complete(_ context.Context, _ assistant.Request) (*assistant.Response, error) {
	return a.response, nil
}

func setupTestApp(tempDir string) *fiber.App {
	return setupTestAppWith(tempDir, &cannedAssistant{
		response: &assistant.Response{Reply: "Tell me more.", Data: map[string]any{}},
	})
}

func setupTestAppWith(tempDir string, stub assistant.Assistant) *fiber.App {
	p := file.NewPersistence(tempDir)

	api := NewAPI(
		slog.Default(),
		p,
		stub,
		listcache.NewMemory(time.Minute),
		nil,
	)

	return api.App()
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Coach API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_GetSections(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/sections", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Sections []json.RawMessage `json:"sections"`
		Groups   []json.RawMessage `json:"groups"`
	}

	err = json.NewDecoder(resp.Body).Decode(&payload)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.Sections)
	assert.NotEmpty(t, payload.Groups)
}

func TestAPI_GetSection_NotFound(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/sections/no-such-section", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_BusinessPlanLifecycle(t *testing.T) {
	app := setupTestApp(t.TempDir())

	// Create
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/business-plans/", map[string]any{
		"title": "Bakery Plan",
		"owner": "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.BusinessPlan

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Bakery Plan", created.Title)

	// Fetch
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/business-plans/"+created.ID, nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Update the title only
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/business-plans/"+created.ID, map[string]any{
		"title": "Bakery Plan v2",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.BusinessPlan

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Bakery Plan v2", updated.Title)
	assert.Equal(t, "user-1", updated.Owner)

	// List with an owner filter
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/business-plans/?owner=user-1", nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		BusinessPlans []models.BusinessPlan `json:"business_plans"`
		TotalCount    int64                 `json:"total_count"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed.BusinessPlans, 1)
	assert.Equal(t, int64(1), listed.TotalCount)

	// Delete
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/business-plans/"+created.ID, nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/business-plans/"+created.ID, nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateBusinessPlan_ValidationFailure(t *testing.T) {
	app := setupTestApp(t.TempDir())

	// Title below the minimum length.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/business-plans/", map[string]any{
		"title": "ab",
		"owner": "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SaveAndGetSection(t *testing.T) {
	app := setupTestApp(t.TempDir())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/business-plans/", map[string]any{
		"title": "Bakery Plan",
		"owner": "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.BusinessPlan

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/business-plans/"+created.ID+"/sections/vision", map[string]any{
		"markdown": "## Vision\n\nBe the neighborhood's favorite bakery.",
		"data":     map[string]any{"vision_statement": "Be the neighborhood's favorite bakery."},
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/business-plans/"+created.ID+"/sections/vision", nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Key      string         `json:"key"`
		Markdown string         `json:"markdown"`
		Data     map[string]any `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "vision", state.Key)
	assert.Contains(t, state.Markdown, "favorite bakery")
}

func TestAPI_SaveSection_UnknownKey(t *testing.T) {
	app := setupTestApp(t.TempDir())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/business-plans/", map[string]any{
		"title": "Bakery Plan",
		"owner": "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.BusinessPlan

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/business-plans/"+created.ID+"/sections/bogus", map[string]any{
		"markdown": "text",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Chat(t *testing.T) {
	stub := &cannedAssistant{response: &assistant.Response{
		Reply: "Here is a draft vision.",
		Data: map[string]any{
			"vision_statement": "Be the neighborhood's favorite bakery.",
		},
	}}
	tempDir := t.TempDir()
	app := setupTestAppWith(tempDir, stub)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/business-plans/", map[string]any{
		"title": "Bakery Plan",
		"owner": "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.BusinessPlan

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/business-plans/"+created.ID+"/sections/vision/chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "We bake bread."},
		},
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Reply   string         `json:"reply"`
		Data    map[string]any `json:"data"`
		Preview string         `json:"preview"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Here is a draft vision.", result.Reply)
	assert.Contains(t, result.Preview, "favorite bakery")

	// Chatting never writes section content; the section is still empty.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/business-plans/"+created.ID+"/sections/vision", nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	var state struct {
		Markdown string `json:"markdown"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Empty(t, state.Markdown)
}

func TestAPI_ActionItems_CategoryFilter(t *testing.T) {
	app := setupTestApp(t.TempDir())

	for _, content := range []string{"[Sales] Call client", "[Ops] Reorder stock", "Untagged item"} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/action-items/", map[string]any{
			"content": content,
			"owner":   "user-1",
		}))
		require.NoError(t, err)

		closeBody(t, resp)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/action-items/?owner=user-1&category=Sales", nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		ActionItems []models.ActionItem `json:"action_items"`
		Count       int                 `json:"count"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.ActionItems, 1)
	assert.Equal(t, "Call client", listed.ActionItems[0].Content)
	assert.Equal(t, "Sales", listed.ActionItems[0].Category)
}

func TestAPI_ActionItem_Toggle(t *testing.T) {
	app := setupTestApp(t.TempDir())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/action-items/", map[string]any{
		"content": "Call client",
		"owner":   "user-1",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.ActionItem

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/action-items/"+created.ID+"/toggle", nil))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var toggled models.ActionItem

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&toggled))
	assert.True(t, toggled.IsCompleted)
	assert.NotNil(t, toggled.CompletedAt)
}

func TestAPI_MigrateUser(t *testing.T) {
	tempDir := t.TempDir()
	p := file.NewPersistence(tempDir)

	seedMigrationFixture(t, p)

	app := setupTestAppWith(tempDir, &cannedAssistant{
		response: &assistant.Response{Reply: "ok", Data: map[string]any{}},
	})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/users/anon-123/migrate", map[string]any{
		"target_user_id": "auth-456",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		PlansMoved      int64 `json:"plans_moved"`
		AlreadyMigrated bool  `json:"already_migrated"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(1), result.PlansMoved)
	assert.False(t, result.AlreadyMigrated)

	// Migrating the same pair again is a no-op success.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/users/anon-123/migrate", map[string]any{
		"target_user_id": "auth-456",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A different target is a conflict.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/users/anon-123/migrate", map[string]any{
		"target_user_id": "auth-789",
	}))
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func seedMigrationFixture(t *testing.T, p persistence.Persistence) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, p.UserRepository().Save(t.Context(), &models.User{
		ID:          "anon-123",
		Placeholder: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
	require.NoError(t, p.BusinessPlanRepository().Save(t.Context(), &models.BusinessPlan{
		ID:        "plan-1",
		Title:     "Anon Plan",
		Owner:     "anon-123",
		Status:    models.PlanStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestAPI_CORS_Headers(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodOptions, "/business-plans/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
