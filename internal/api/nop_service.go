package api

import (
	"context"

	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/pkg/router"
)

// NopTodoService does nothing. It lets the router be built without a
// database, solely to generate the OpenAPI document.
type NopTodoService struct{}

// ListTodos implements TodoService
func (NopTodoService) ListTodos(context.Context) ([]model.Todo, error) {
	return nil, nil
}

// GetTodo implements TodoService
func (NopTodoService) GetTodo(context.Context, string) (model.Todo, error) {
	return model.Todo{}, nil
}

// CreateTodo implements TodoService
func (NopTodoService) CreateTodo(context.Context, model.CreateTodoRequest) (model.Todo, error) {
	return model.Todo{}, nil
}

// UpdateTodo implements TodoService
func (NopTodoService) UpdateTodo(context.Context, string, model.UpdateTodoRequest) (model.Todo, error) {
	return model.Todo{}, nil
}

// DeleteTodo implements TodoService
func (NopTodoService) DeleteTodo(context.Context, string) (model.Todo, error) {
	return model.Todo{}, nil
}

// SearchTodos implements TodoService
func (NopTodoService) SearchTodos(context.Context, string) ([]model.Todo, error) {
	return nil, nil
}

// NopHealthService reports everything as healthy
type NopHealthService struct{}

// Check implements HealthService
func (NopHealthService) Check(context.Context) model.HealthStatusResponse {
	return model.HealthStatusResponse{API: model.StatusOK, Database: model.StatusOK}
}

// DocsRouter builds the router on no-op services, for documentation only
func DocsRouter(title, version string) *router.DocRouter {
	return NewRouter(Config{
		Todos:   NopTodoService{},
		Health:  NopHealthService{},
		Title:   title,
		Version: version,
	})
}
