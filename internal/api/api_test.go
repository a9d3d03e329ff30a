package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirocosta/todo-api-go/internal/clock"
	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/internal/repository"
	"github.com/cirocosta/todo-api-go/internal/service"
	"github.com/cirocosta/todo-api-go/pkg/router"
)

const groceriesBody = `{"subject":"Buy groceries","description":"Buy groceries from the supermarket for the weekend.","dueDate":"2023-11-04T15:32:34.205052Z"}`

// newTestRouter wires the whole stack on an in-memory repository, a frozen
// clock and an id generator always handing out fixedID
func newTestRouter(healthErr error) *router.DocRouter {
	c := clock.NewFrozen(frozenAt)
	repo := repository.NewInMemoryTodoRepository(c)
	health := repository.HealthCheckFunc(func(context.Context) error { return healthErr })

	return NewRouter(Config{
		Todos:          service.NewTodoService(repo, c, idgen.MustParseFixed(fixedID), discardLogger()),
		Health:         service.NewHealthService(health, discardLogger()),
		Logger:         discardLogger(),
		RequestTimeout: time.Second,
		Version:        "test",
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateTodoScenario(t *testing.T) {
	t.Parallel()

	h := newTestRouter(nil)

	rec := serve(h, http.MethodPost, "/v1/todos", groceriesBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": "01HEEQ3Y8QJ8PWSWAG0V5ZNF3G",
		"subject": "Buy groceries",
		"description": "Buy groceries from the supermarket for the weekend.",
		"isDone": false,
		"dueDate": "2023-11-04T15:32:34.205052Z",
		"createdAt": "2023-11-04T15:32:34.205052Z",
		"updatedAt": "2023-11-04T15:32:34.205052Z"
	}`, rec.Body.String())
}

func TestAlienDateScenario(t *testing.T) {
	t.Parallel()

	rec := serve(newTestRouter(nil), http.MethodPost, "/v1/todos",
		`{"subject":"Buy groceries","description":"Buy groceries from the supermarket for the weekend.","dueDate":"ALIEN DATE"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeValidationError, decodeProblem(t, rec).Code)
}

func TestPatchUnknownTodoScenario(t *testing.T) {
	t.Parallel()

	rec := serve(newTestRouter(nil), http.MethodPatch, "/v1/todos/01HEEQ3Y8QJ8PWSWAG0V5ZNF3Z", `{"isDone":true}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.Problem{
		Code:   model.CodeResourceNotFound,
		Issues: []string{"resource with id 01HEEQ3Y8QJ8PWSWAG0V5ZNF3Z does not exist!"},
	}, decodeProblem(t, rec))
}

func TestHealthScenario(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		healthErr error
		wantBody  string
	}{
		"store responds": {
			wantBody: `{"api":"OK","database":"OK"}`,
		},
		"store does not respond": {
			healthErr: &repository.ConnectionError{Op: "ping", Err: errors.New("connection refused")},
			wantBody:  `{"api":"OK","database":"NOK"}`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(newTestRouter(tc.healthErr), http.MethodGet, "/v1/health", "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestRouter(nil)

	rec := serve(h, http.MethodPost, "/v1/todos", groceriesBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, fixedID, list[0].ID)

	rec = serve(h, http.MethodGet, "/v1/todos/search?q=SUPERMARKET", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []model.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	rec = serve(h, http.MethodPatch, "/v1/todos/"+fixedID, `{"isDone":true,"subject":"Buy milk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.IsDone)
	assert.Equal(t, "Buy milk", updated.Subject)
	assert.Equal(t, list[0].Description, updated.Description)
	assert.Equal(t, list[0].DueDate, updated.DueDate)

	rec = serve(h, http.MethodGet, "/v1/todos/"+fixedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, mustJSON(t, updated), rec.Body.String())

	rec = serve(h, http.MethodDelete, "/v1/todos/"+fixedID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, mustJSON(t, updated), rec.Body.String())

	rec = serve(h, http.MethodGet, "/v1/todos/"+fixedID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/v1/todos", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRoutingProblems(t *testing.T) {
	t.Parallel()

	h := newTestRouter(nil)

	for name, tc := range map[string]struct {
		method     string
		path       string
		wantStatus int
		wantCode   string
	}{
		"unknown path": {
			method:     http.MethodGet,
			path:       "/v1/nothing",
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeResourceNotFound,
		},
		"unprefixed path": {
			method:     http.MethodGet,
			path:       "/todos",
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeResourceNotFound,
		},
		"unsupported method": {
			method:     http.MethodPut,
			path:       "/v1/todos/" + fixedID,
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeResourceNotFound,
		},
		"malformed id": {
			method:     http.MethodGet,
			path:       "/v1/todos/not-an-id",
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeResourceNotFound,
		},
		"search without q": {
			method:     http.MethodGet,
			path:       "/v1/todos/search",
			wantStatus: http.StatusBadRequest,
			wantCode:   model.CodeValidationError,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(h, tc.method, tc.path, "")

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeProblem(t, rec).Code)
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestDocsRoute(t *testing.T) {
	t.Parallel()

	rec := serve(newTestRouter(nil), http.MethodGet, "/v1/docs.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	paths := doc["paths"].(map[string]any)
	for _, path := range []string{"/v1/todos", "/v1/todos/search", "/v1/todos/{id}", "/v1/health", "/v1/docs.json"} {
		assert.Contains(t, paths, path)
	}

	byID := paths["/v1/todos/{id}"].(map[string]any)
	assert.Len(t, byID, 3)

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	for _, name := range []string{"TodoResponse", "CreateTodoRequest", "UpdateTodoRequest", "Problem", "HealthStatusResponse"} {
		assert.Contains(t, schemas, name)
	}
}

func TestDocsRouterNeedsNoDatabase(t *testing.T) {
	t.Parallel()

	data, err := DocsRouter("Todo API", "1.0.0").OpenAPIJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/v1/todos/search"`)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
