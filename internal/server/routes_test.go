package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist-backend/internal/database"
	"checklist-backend/internal/repository"
	"checklist-backend/internal/service"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checklist.json")
	repo, err := repository.NewSnapshotRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.ImportReplaceAll(context.Background(), nil))

	s := &Server{
		checklistService: service.NewChecklistService(repo),
		db:               database.NewSnapshotService(path),
	}
	return s.RegisterRoutes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type sectionPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		Done bool   `json:"done"`
	} `json:"items"`
}

func getSections(t *testing.T, handler http.Handler) []sectionPayload {
	t.Helper()
	rec := doJSON(t, handler, http.MethodGet, "/api/sections", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sections []sectionPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sections))
	return sections
}

func TestSectionEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	assert.Empty(t, getSections(t, handler))

	rec := doJSON(t, handler, http.MethodPost, "/api/sections", map[string]string{"title": "Launch day"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sectionPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Launch day", created.Title)
	assert.Empty(t, created.Items)

	rec = doJSON(t, handler, http.MethodPost, "/api/sections", map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/api/sections/"+created.ID, map[string]string{"title": "Launch week"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPut, "/api/sections/"+created.ID, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/api/sections/no-such-id", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/sections/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, getSections(t, handler))

	rec = doJSON(t, handler, http.MethodDelete, "/api/sections/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/sections", map[string]string{"title": "Checks"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var section sectionPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &section))

	rec = doJSON(t, handler, http.MethodPost, "/api/sections/"+section.ID+"/items", map[string]string{"text": "Buy domain"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		Done bool   `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Buy domain", item.Text)
	assert.False(t, item.Done)

	rec = doJSON(t, handler, http.MethodPost, "/api/sections/"+section.ID+"/items", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/sections/no-such-id/items", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/api/items/"+item.ID, map[string]any{"done": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	sections := getSections(t, handler)
	require.Len(t, sections[0].Items, 1)
	assert.True(t, sections[0].Items[0].Done)

	// Duplicate: new id, done reset, placed right after the source.
	rec = doJSON(t, handler, http.MethodPost, "/api/items/"+item.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var clone struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		Done bool   `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clone))
	assert.Equal(t, "Buy domain", clone.Text)
	assert.False(t, clone.Done)
	assert.NotEqual(t, item.ID, clone.ID)

	sections = getSections(t, handler)
	require.Len(t, sections[0].Items, 2)
	assert.Equal(t, item.ID, sections[0].Items[0].ID)
	assert.Equal(t, clone.ID, sections[0].Items[1].ID)

	rec = doJSON(t, handler, http.MethodDelete, "/api/items/"+clone.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/items/"+clone.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/api/items/no-such-id", map[string]any{"done": false})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitImportAndUncheckAll(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/init", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sections := getSections(t, handler)
	require.Len(t, sections, 8)
	assert.Equal(t, "Strategy & Setup", sections[0].Title)

	// A second init against the populated store is a client error.
	rec = doJSON(t, handler, http.MethodPost, "/api/init", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Check a few items, then uncheck everything.
	for _, item := range sections[0].Items[:3] {
		rec = doJSON(t, handler, http.MethodPut, "/api/items/"+item.ID, map[string]any{"done": true})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/uncheck-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"changes":3}`, rec.Body.String())

	for _, sec := range getSections(t, handler) {
		for _, item := range sec.Items {
			assert.False(t, item.Done)
		}
	}

	// Import replaces the template wholesale.
	importBody := map[string]any{"data": []map[string]any{
		{
			"id":    "s-1",
			"title": "Only section",
			"items": []map[string]any{
				{"id": "i-1", "text": "only item", "done": true},
			},
		},
	}}
	rec = doJSON(t, handler, http.MethodPost, "/api/import", importBody)
	require.Equal(t, http.StatusOK, rec.Code)

	sections = getSections(t, handler)
	require.Len(t, sections, 1)
	assert.Equal(t, "s-1", sections[0].ID)
	require.Len(t, sections[0].Items, 1)
	assert.True(t, sections[0].Items[0].Done)

	// Malformed import: existing data stays untouched.
	rec = doJSON(t, handler, http.MethodPost, "/api/import", map[string]any{"data": []map[string]any{{"items": []any{}}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	sections = getSections(t, handler)
	require.Len(t, sections, 1)
	assert.Equal(t, "Only section", sections[0].Title)
}

func TestMalformedRequestBodies(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sections", bytes.NewReader([]byte(`{"title": `)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/sections", map[string]any{"title": "ok", "bogus": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/sections", bytes.NewReader(nil))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "up", health["status"])
}
