package api

import (
	"log/slog"
	"net/http"

	"github.com/cirocosta/todo-api-go/internal/model"
)

// TodoHandler handles HTTP requests for todo operations
type TodoHandler struct {
	todoService TodoService
	logger      *slog.Logger
}

// NewTodoHandler creates a new todo handler with the given service
func NewTodoHandler(todoService TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// ListTodos handles GET /v1/todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ListTodos(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, toResponses(todos), http.StatusOK)
}

// SearchTodos handles GET /v1/todos/search
func (h *TodoHandler) SearchTodos(w http.ResponseWriter, r *http.Request) {
	req := model.SearchTodoRequest{Q: r.URL.Query().Get("q")}
	if issues := validationIssues(&req); len(issues) > 0 {
		writeValidationProblem(w, issues)
		return
	}

	todos, err := h.todoService.SearchTodos(r.Context(), req.Q)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, toResponses(todos), http.StatusOK)
}

// GetTodo handles GET /v1/todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.GetTodo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, todo.Response(), http.StatusOK)
}

// CreateTodo handles POST /v1/todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTodoRequest
	if issues := decodeJSON(w, r, &req); len(issues) > 0 {
		writeValidationProblem(w, issues)
		return
	}

	todo, err := h.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, todo.Response(), http.StatusOK)
}

// UpdateTodo handles PATCH /v1/todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateTodoRequest
	if issues := decodeJSON(w, r, &req); len(issues) > 0 {
		writeValidationProblem(w, issues)
		return
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, todo.Response(), http.StatusOK)
}

// DeleteTodo handles DELETE /v1/todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.DeleteTodo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, todo.Response(), http.StatusOK)
}

func toResponses(todos []model.Todo) []model.TodoResponse {
	responses := make([]model.TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, todo.Response())
	}
	return responses
}
