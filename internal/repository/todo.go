// package repository provides data access interfaces and implementations
package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/cirocosta/todo-api-go/internal/clock"
	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/model"
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create stores a new todo and returns the stored representation
	Create(ctx context.Context, todo model.Todo) (model.TodoRecord, error)

	// FindAll returns all todos, oldest first
	FindAll(ctx context.Context) ([]model.TodoRecord, error)

	// FindByID returns a specific todo by ID
	FindByID(ctx context.Context, id idgen.ID) (model.TodoRecord, error)

	// Update replaces the mutable fields of an existing todo
	Update(ctx context.Context, id idgen.ID, changes model.TodoChanges) (model.TodoRecord, error)

	// Delete removes a todo and returns what was removed
	Delete(ctx context.Context, id idgen.ID) (model.TodoRecord, error)

	// Search returns the todos matching q, most relevant first
	Search(ctx context.Context, q string) ([]model.TodoRecord, error)
}

// subject matches weigh twice as much as description matches
const (
	subjectWeight     = 2
	descriptionWeight = 1
)

// InMemoryTodoRepository implements TodoRepository with an in-memory map
type InMemoryTodoRepository struct {
	todos map[idgen.ID]model.TodoRecord
	clock clock.Clock
	mutex sync.RWMutex
}

// NewInMemoryTodoRepository creates an empty in-memory todo repository
func NewInMemoryTodoRepository(c clock.Clock) *InMemoryTodoRepository {
	return &InMemoryTodoRepository{
		todos: make(map[idgen.ID]model.TodoRecord),
		clock: c,
	}
}

// Create adds a new todo
func (r *InMemoryTodoRepository) Create(ctx context.Context, todo model.Todo) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, &ConnectionError{Op: "create todo", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.todos[todo.ID]; exists {
		return model.TodoRecord{}, &QueryError{Op: "create todo", Err: errDuplicateID(todo.ID)}
	}

	record := model.TodoRecord{
		ID:          todo.ID.String(),
		Subject:     todo.Subject,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	r.todos[todo.ID] = record

	return record, nil
}

// FindAll returns all todos
func (r *InMemoryTodoRepository) FindAll(ctx context.Context) ([]model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Op: "list todos", Err: err}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todos := make([]model.TodoRecord, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}

	slices.SortFunc(todos, byCreation)

	return todos, nil
}

// FindByID returns a specific todo by ID
func (r *InMemoryTodoRepository) FindByID(ctx context.Context, id idgen.ID) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, &ConnectionError{Op: "get todo", Err: err}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todo, exists := r.todos[id]
	if !exists {
		return model.TodoRecord{}, ErrTodoNotFound{ID: id.String()}
	}

	return todo, nil
}

// Update modifies an existing todo
func (r *InMemoryTodoRepository) Update(ctx context.Context, id idgen.ID, changes model.TodoChanges) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, &ConnectionError{Op: "update todo", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	todo, exists := r.todos[id]
	if !exists {
		return model.TodoRecord{}, ErrTodoNotFound{ID: id.String()}
	}

	todo.Subject = changes.Subject
	todo.Description = changes.Description
	todo.IsDone = changes.IsDone
	todo.DueDate = changes.DueDate

	// updated_at never goes back in time
	todo.UpdatedAt = changes.UpdatedAt
	if now := r.clock.Now(); todo.UpdatedAt.Before(now) {
		todo.UpdatedAt = now
	}

	r.todos[id] = todo

	return todo, nil
}

// Delete removes a todo
func (r *InMemoryTodoRepository) Delete(ctx context.Context, id idgen.ID) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, &ConnectionError{Op: "delete todo", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	todo, exists := r.todos[id]
	if !exists {
		return model.TodoRecord{}, ErrTodoNotFound{ID: id.String()}
	}

	delete(r.todos, id)

	return todo, nil
}

// Search ranks todos by term frequency, counting subject hits double. A
// field only matches when it contains every term of q.
func (r *InMemoryTodoRepository) Search(ctx context.Context, q string) ([]model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Op: "search todos", Err: err}
	}

	terms := tokenize(q)
	if len(terms) == 0 {
		return []model.TodoRecord{}, nil
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	type hit struct {
		todo  model.TodoRecord
		score int
	}

	var hits []hit
	for _, todo := range r.todos {
		score := subjectWeight*fieldScore(todo.Subject, terms) +
			descriptionWeight*fieldScore(todo.Description, terms)
		if score > 0 {
			hits = append(hits, hit{todo: todo, score: score})
		}
	}

	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return byCreation(a.todo, b.todo)
	})

	todos := make([]model.TodoRecord, 0, len(hits))
	for _, h := range hits {
		todos = append(todos, h.todo)
	}

	return todos, nil
}

// Len returns the number of stored todos
func (r *InMemoryTodoRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.todos)
}

func byCreation(a, b model.TodoRecord) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// fieldScore counts the occurrences of terms in text, or 0 when a term is missing
func fieldScore(text string, terms []string) int {
	counts := map[string]int{}
	for _, token := range tokenize(text) {
		counts[token]++
	}

	score := 0
	for _, term := range terms {
		n := counts[term]
		if n == 0 {
			return 0
		}
		score += n
	}

	return score
}

// tokenize lowercases text and splits it on anything that is not a letter or digit
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

type errDuplicateID idgen.ID

func (e errDuplicateID) Error() string {
	return "duplicate id " + idgen.ID(e).String()
}
