// package service implements business logic for the application
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cirocosta/todo-api-go/internal/clock"
	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/internal/repository"
)

// TodoService handles business logic for todo operations
type TodoService struct {
	repo   repository.TodoRepository
	clock  clock.Clock
	ids    idgen.Generator
	logger *slog.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(repo repository.TodoRepository, c clock.Clock, ids idgen.Generator, logger *slog.Logger) *TodoService {
	return &TodoService{
		repo:   repo,
		clock:  c,
		ids:    ids,
		logger: logger,
	}
}

// CreateTodo creates a new todo that is not done yet
func (s *TodoService) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	now := s.clock.Now()
	todo := model.Todo{
		ID:          s.ids.Generate(),
		Subject:     req.Subject,
		Description: req.Description,
		IsDone:      false,
		DueDate:     req.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	record, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, s.translate(ctx, "create todo", err)
	}

	return s.toDomain(ctx, record)
}

// ListTodos returns all todos, oldest first
func (s *TodoService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.translate(ctx, "list todos", err)
	}

	return s.toDomainList(ctx, records)
}

// GetTodo returns a todo by ID
func (s *TodoService) GetTodo(ctx context.Context, id string) (model.Todo, error) {
	todoID, err := s.parseID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	record, err := s.repo.FindByID(ctx, todoID)
	if err != nil {
		return model.Todo{}, s.translate(ctx, "get todo", err)
	}

	return s.toDomain(ctx, record)
}

// UpdateTodo merges the fields present in req over the stored todo
func (s *TodoService) UpdateTodo(ctx context.Context, id string, req model.UpdateTodoRequest) (model.Todo, error) {
	todoID, err := s.parseID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	existing, err := s.repo.FindByID(ctx, todoID)
	if err != nil {
		return model.Todo{}, s.translate(ctx, "update todo", err)
	}

	record, err := s.repo.Update(ctx, todoID, merge(existing, req, s.clock.Now()))
	if err != nil {
		return model.Todo{}, s.translate(ctx, "update todo", err)
	}

	return s.toDomain(ctx, record)
}

// DeleteTodo deletes a todo and returns it
func (s *TodoService) DeleteTodo(ctx context.Context, id string) (model.Todo, error) {
	todoID, err := s.parseID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	record, err := s.repo.Delete(ctx, todoID)
	if err != nil {
		return model.Todo{}, s.translate(ctx, "delete todo", err)
	}

	return s.toDomain(ctx, record)
}

// SearchTodos returns the todos matching q, most relevant first
func (s *TodoService) SearchTodos(ctx context.Context, q string) ([]model.Todo, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ValidationError("q: required")
	}

	records, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, s.translate(ctx, "search todos", err)
	}

	return s.toDomainList(ctx, records)
}

// merge overrides the stored fields with the ones present in req
func merge(existing model.TodoRecord, req model.UpdateTodoRequest, now time.Time) model.TodoChanges {
	changes := model.TodoChanges{
		Subject:     existing.Subject,
		Description: existing.Description,
		IsDone:      existing.IsDone,
		DueDate:     existing.DueDate,
		UpdatedAt:   now,
	}

	if req.Subject != nil {
		changes.Subject = *req.Subject
	}
	if req.Description != nil {
		changes.Description = *req.Description
	}
	if req.IsDone != nil {
		changes.IsDone = *req.IsDone
	}
	if req.DueDate != nil {
		changes.DueDate = req.DueDate.UTC()
	}

	return changes
}

// parseID turns a malformed id into a not found error, the same answer an
// unknown id gets
func (s *TodoService) parseID(ctx context.Context, id string) (idgen.ID, error) {
	todoID, err := s.ids.Parse(id)
	if err != nil {
		s.logger.DebugContext(ctx, "rejected malformed todo id", "id", id, "error", err)
		return idgen.ID{}, NotFoundError(id, err)
	}

	return todoID, nil
}

func (s *TodoService) toDomain(ctx context.Context, record model.TodoRecord) (model.Todo, error) {
	id, err := s.ids.Parse(record.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored todo has an invalid id", "id", record.ID, "error", err)
		return model.Todo{}, ServerError(fmt.Errorf("stored todo: %w", err))
	}

	return model.Todo{
		ID:          id,
		Subject:     record.Subject,
		Description: record.Description,
		IsDone:      record.IsDone,
		DueDate:     record.DueDate,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

func (s *TodoService) toDomainList(ctx context.Context, records []model.TodoRecord) ([]model.Todo, error) {
	todos := make([]model.Todo, 0, len(records))
	for _, record := range records {
		todo, err := s.toDomain(ctx, record)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	return todos, nil
}

// translate maps repository errors onto service errors
func (s *TodoService) translate(ctx context.Context, op string, err error) error {
	var notFound repository.ErrTodoNotFound
	if errors.As(err, &notFound) {
		return NotFoundError(notFound.ID, err)
	}

	var (
		connErr  *repository.ConnectionError
		queryErr *repository.QueryError
	)
	switch {
	case errors.As(err, &connErr):
		s.logger.ErrorContext(ctx, "database unreachable", "op", op, "error", err)
	case errors.As(err, &queryErr):
		s.logger.ErrorContext(ctx, "database query failed", "op", op, "error", err)
	default:
		s.logger.ErrorContext(ctx, "unexpected repository error", "op", op, "error", err)
	}

	return ServerError(fmt.Errorf("%s: %w", op, err))
}
