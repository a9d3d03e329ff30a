package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test types
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner Owner  `json:"owner"`
}

type CreateTaskRequest struct {
	Title string `json:"title" doc:"Title of the task" validate:"min=1"`
}

type ListTasksQuery struct {
	Owner string `query:"owner" doc:"Only tasks of this owner" validate:"required"`
	Page  int    `query:"page"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func noopHandler(w http.ResponseWriter, r *http.Request) {}

func textHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestNewDocRouter(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	assert.NotNil(t, router)
	assert.Equal(t, "Test API", router.title)
	assert.Equal(t, "API for testing", router.description)
	assert.Equal(t, "1.0.0", router.version)
	assert.NotNil(t, router.mux)
	assert.NotNil(t, router.notFound)
	assert.Empty(t, router.routes)
	assert.Empty(t, router.servers)
	assert.Empty(t, router.tags)
	assert.Empty(t, router.responses)
	assert.Empty(t, router.middlewares)
}

func TestWithServer(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	result := router.WithServer("https://api.example.com", "Production server")

	assert.Equal(t, router, result, "WithServer should return the router for chaining")
	assert.Equal(t, []Server{{URL: "https://api.example.com", Description: "Production server"}}, router.servers)
}

func TestWithTag(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	result := router.WithTag("tasks", "Task operations")

	assert.Equal(t, router, result, "WithTag should return the router for chaining")
	assert.Equal(t, []Tag{{Name: "tasks", Description: "Task operations"}}, router.tags)
}

func TestRegisterResponse(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	router.RegisterResponse("ServerError", "Unexpected failure", ErrorResponse{},
		Example{Name: "boom", Value: `{"code":"SERVER_ERROR","message":"boom"}`})

	require.Contains(t, router.responses, "ServerError")
	response := router.responses["ServerError"]
	assert.Equal(t, "Unexpected failure", response.Description)
	assert.IsType(t, ErrorResponse{}, response.Schema)
	assert.Len(t, response.Examples, 1)
}

func TestRouteConfigChain(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	router.Route("GET", "/tasks/{id}", noopHandler).
		WithName("Get Task").
		WithDescription("Get a task by ID").
		WithResponse(Task{}).
		WithRequest(nil).
		WithQuery(ListTasksQuery{}).
		WithErrorResponse("404", "Task not found", ErrorResponse{}).
		WithSharedResponse("500", "ServerError").
		WithTags("tasks").
		Register()

	routes := router.GetRoutes()
	require.Len(t, routes, 1)
	route := routes[0]

	assert.Equal(t, "GET", route.Method)
	assert.Equal(t, "/tasks/{id}", route.Path)
	assert.Equal(t, "Get Task", route.Name)
	assert.Equal(t, "Get a task by ID", route.Description)
	assert.NotNil(t, route.Handler)
	assert.IsType(t, Task{}, route.ResponseType)
	assert.IsType(t, ListTasksQuery{}, route.QueryType)
	assert.Nil(t, route.RequestType)
	assert.Len(t, route.Responses, 2)
	assert.Equal(t, "Task not found", route.Responses["404"].Description)
	assert.Equal(t, "ServerError", route.Responses["500"].Shared)
	assert.Equal(t, []string{"tasks"}, route.Tags)
}

func TestServeHTTPDispatch(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	router.Route("GET", "/tasks", textHandler("list")).Register()
	router.Route("POST", "/tasks", textHandler("create")).Register()
	router.Route("GET", "/tasks/search", textHandler("search")).Register()
	router.Route("GET", "/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("get " + r.PathValue("id")))
	}).Register()
	router.NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nothing here"))
	}))

	tests := map[string]struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		"list": {
			method:     http.MethodGet,
			path:       "/tasks",
			wantStatus: http.StatusOK,
			wantBody:   "list",
		},
		"create": {
			method:     http.MethodPost,
			path:       "/tasks",
			wantStatus: http.StatusOK,
			wantBody:   "create",
		},
		"literal segment wins over wildcard": {
			method:     http.MethodGet,
			path:       "/tasks/search",
			wantStatus: http.StatusOK,
			wantBody:   "search",
		},
		"path value": {
			method:     http.MethodGet,
			path:       "/tasks/42",
			wantStatus: http.StatusOK,
			wantBody:   "get 42",
		},
		"unknown path": {
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
			wantBody:   "nothing here",
		},
		"unregistered method": {
			method:     http.MethodDelete,
			path:       "/tasks",
			wantStatus: http.StatusNotFound,
			wantBody:   "nothing here",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestUseAppliesMiddlewaresInOrder(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	var calls []string
	trace := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router.Use(trace("outer"), trace("inner"))
	// registered after Use on purpose
	router.Route("GET", "/tasks", textHandler("list")).Register()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, []string{"outer", "inner"}, calls)
	assert.Equal(t, "list", w.Body.String())

	calls = nil
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, []string{"outer", "inner"}, calls, "unmatched requests go through middlewares too")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocsHandler(t *testing.T) {
	router := NewDocRouter("Test API", "API for testing", "1.0.0")
	router.Route("GET", "/openapi.json", router.DocsHandler()).Register()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(w.Body.String(), `"openapi": "3.0.3"`))
}
