// package api provides the HTTP API for the application
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/pkg/router"
)

// TodoService defines the minimal interface needed by the API
type TodoService interface {
	// ListTodos returns all todos
	ListTodos(ctx context.Context) ([]model.Todo, error)

	// GetTodo returns a todo by ID
	GetTodo(ctx context.Context, id string) (model.Todo, error)

	// CreateTodo creates a new todo
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error)

	// UpdateTodo updates an existing todo
	UpdateTodo(ctx context.Context, id string, req model.UpdateTodoRequest) (model.Todo, error)

	// DeleteTodo deletes a todo and returns it
	DeleteTodo(ctx context.Context, id string) (model.Todo, error)

	// SearchTodos returns the todos matching q, most relevant first
	SearchTodos(ctx context.Context, q string) ([]model.Todo, error)
}

// HealthService reports the status of the API and its dependencies
type HealthService interface {
	Check(ctx context.Context) model.HealthStatusResponse
}

// Config gathers everything the HTTP layer is built from
type Config struct {
	Todos  TodoService
	Health HealthService
	Logger *slog.Logger

	// RequestTimeout bounds the handling of each request, zero disables it
	RequestTimeout time.Duration

	Title   string
	Version string
}

// API holds the components needed to register routes
type API struct {
	router        *router.DocRouter
	todoHandler   *TodoHandler
	healthHandler *HealthHandler
	logger        *slog.Logger
}

const prefix = "/v1"

// NewRouter creates a new router with all routes configured
func NewRouter(cfg Config) *router.DocRouter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	title := cfg.Title
	if title == "" {
		title = "Todo API"
	}

	r := router.NewDocRouter(title,
		"Create, track and search todo items",
		cfg.Version,
	)

	// outermost first
	r.Use(requestIDMiddleware)
	r.Use(loggerMiddleware(logger))
	r.Use(recovererMiddleware(logger))
	r.Use(timeoutMiddleware(cfg.RequestTimeout))

	api := &API{
		router:        r,
		todoHandler:   NewTodoHandler(cfg.Todos, logger),
		healthHandler: NewHealthHandler(cfg.Health),
		logger:        logger,
	}

	api.registerRoutes()

	r.NotFound(http.HandlerFunc(api.notFound))

	return r
}

// registerRoutes configures all API routes with documentation
func (api *API) registerRoutes() {
	problem := &model.Problem{}

	api.router.WithServer("/", "Current host").
		WithTag("Todo", "Operations related to todo items").
		WithTag("Core", "Core API endpoints")

	api.router.RegisterResponse("ServerError", "Internal Server Error", problem,
		router.Example{
			Name:  "serverError",
			Value: `{"code": "SERVER_ERROR", "issues": ["This is on us, we will take care of it."]}`,
		})

	notFound := router.Example{
		Name:  "notFound",
		Value: `{"code": "RESOURCE_NOT_FOUND", "issues": ["resource with id 01HEEQ3Y8QJ8PWSWAG0V5ZNF3G does not exist!"]}`,
	}

	api.router.Route("GET", prefix+"/todos", api.todoHandler.ListTodos).
		WithName("List Todos").
		WithDescription("Get all todo items, oldest first").
		WithResponse([]model.TodoResponse{}).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("GET", prefix+"/todos/search", api.todoHandler.SearchTodos).
		WithName("Search Todos").
		WithDescription("Full text search over subject and description, most relevant first").
		WithQuery(&model.SearchTodoRequest{}).
		WithResponse([]model.TodoResponse{}).
		WithErrorResponse("400", "Bad Request", problem,
			router.Example{
				Name:  "missingQuery",
				Value: `{"code": "VALIDATION_ERROR", "issues": ["q: required"]}`,
			}).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("POST", prefix+"/todos", api.todoHandler.CreateTodo).
		WithName("Create Todo").
		WithDescription("Create a new todo item").
		WithRequest(&model.CreateTodoRequest{}).
		WithResponse(&model.TodoResponse{}).
		WithErrorResponse("400", "Bad Request", problem,
			router.Example{
				Name:  "invalidBody",
				Value: `{"code": "VALIDATION_ERROR", "issues": ["subject: min", "dueDate: required"]}`,
			}).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("GET", prefix+"/todos/{id}", api.todoHandler.GetTodo).
		WithName("Get Todo").
		WithDescription("Get a todo item by ID").
		WithResponse(&model.TodoResponse{}).
		WithErrorResponse("404", "Not Found", problem, notFound).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("PATCH", prefix+"/todos/{id}", api.todoHandler.UpdateTodo).
		WithName("Update Todo").
		WithDescription("Update the fields present in the body, absent fields keep their value").
		WithRequest(&model.UpdateTodoRequest{}).
		WithResponse(&model.TodoResponse{}).
		WithErrorResponse("400", "Bad Request", problem,
			router.Example{
				Name:  "invalidBody",
				Value: `{"code": "VALIDATION_ERROR", "issues": ["subject: min"]}`,
			}).
		WithErrorResponse("404", "Not Found", problem, notFound).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("DELETE", prefix+"/todos/{id}", api.todoHandler.DeleteTodo).
		WithName("Delete Todo").
		WithDescription("Delete a todo item and return it").
		WithResponse(&model.TodoResponse{}).
		WithErrorResponse("404", "Not Found", problem, notFound).
		WithSharedResponse("500", "ServerError").
		WithTags("Todo").
		Register()

	api.router.Route("GET", prefix+"/health", api.healthHandler.Check).
		WithName("Health Check").
		WithDescription("Status of the API and of its database").
		WithResponse(&model.HealthStatusResponse{}).
		WithTags("Core").
		Register()

	api.router.Route("GET", prefix+"/docs.json", api.router.DocsHandler()).
		WithName("OpenAPI Document").
		WithDescription("This OpenAPI document").
		WithTags("Core").
		Register()
}

// notFound answers every request no route matches
func (api *API) notFound(w http.ResponseWriter, r *http.Request) {
	api.logger.WarnContext(r.Context(), "no route matched",
		"method", r.Method,
		"path", r.URL.Path,
	)

	writeJSON(w, model.Problem{
		Code:   model.CodeResourceNotFound,
		Issues: []string{fmt.Sprintf("no route matches %s %s", r.Method, r.URL.Path)},
	}, http.StatusNotFound)
}
