package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/model"
)

// TodoTable is the table todos are stored in
const TodoTable = "todo"

const (
	createTodoQuery  = "CREATE $id CONTENT $content"
	listTodosQuery   = "SELECT * FROM type::table($table) ORDER BY created_at ASC, id ASC"
	getTodoQuery     = "SELECT * FROM $id"
	updateTodoQuery  = "UPDATE type::table($table) MERGE $changes WHERE id = $id RETURN AFTER"
	deleteTodoQuery  = "DELETE $id RETURN BEFORE"
	searchTodosQuery = "SELECT *, search::score(1) * 2 + search::score(2) AS score FROM type::table($table) " +
		"WHERE subject @1@ $q OR description @2@ $q ORDER BY score DESC, created_at ASC"
	pingQuery = "RETURN true"
)

var errEmptyResponse = errors.New("empty response")

// todoDocument is the shape of a todo row in SurrealDB
type todoDocument struct {
	ID          *models.RecordID      `json:"id,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	IsDone      bool                  `json:"is_done"`
	DueDate     models.CustomDateTime `json:"due_date"`
	CreatedAt   models.CustomDateTime `json:"created_at"`
	UpdatedAt   models.CustomDateTime `json:"updated_at"`
}

func (d todoDocument) record() model.TodoRecord {
	var id string
	if d.ID != nil {
		id = recordKey(*d.ID)
	}

	return model.TodoRecord{
		ID:          id,
		Subject:     d.Subject,
		Description: d.Description,
		IsDone:      d.IsDone,
		DueDate:     d.DueDate.Time.UTC(),
		CreatedAt:   d.CreatedAt.Time.UTC(),
		UpdatedAt:   d.UpdatedAt.Time.UTC(),
	}
}

// recordKey returns the identifier part of a record id: todo:⟨X⟩ gives X
func recordKey(id models.RecordID) string {
	if s, ok := id.ID.(string); ok {
		return s
	}
	return fmt.Sprint(id.ID)
}

func todoRecordID(id idgen.ID) models.RecordID {
	return models.NewRecordID(TodoTable, id.String())
}

func datetime(t time.Time) models.CustomDateTime {
	return models.CustomDateTime{Time: t.UTC()}
}

// SurrealTodoRepository implements TodoRepository on SurrealDB
type SurrealTodoRepository struct {
	db *surrealdb.DB
}

// NewSurrealTodoRepository creates a repository using an authenticated
// session that already selected its namespace and database
func NewSurrealTodoRepository(db *surrealdb.DB) *SurrealTodoRepository {
	return &SurrealTodoRepository{db: db}
}

// Create implements TodoRepository
func (r *SurrealTodoRepository) Create(ctx context.Context, todo model.Todo) (model.TodoRecord, error) {
	const op = "create todo"

	docs, err := r.query(ctx, op, createTodoQuery, map[string]any{
		"id": todoRecordID(todo.ID),
		"content": todoDocument{
			Subject:     todo.Subject,
			Description: todo.Description,
			IsDone:      todo.IsDone,
			DueDate:     datetime(todo.DueDate),
			CreatedAt:   datetime(todo.CreatedAt),
			UpdatedAt:   datetime(todo.UpdatedAt),
		},
	})
	if err != nil {
		return model.TodoRecord{}, err
	}

	if len(docs) == 0 {
		return model.TodoRecord{}, &QueryError{Op: op, Err: errEmptyResponse}
	}

	return docs[0].record(), nil
}

// FindAll implements TodoRepository
func (r *SurrealTodoRepository) FindAll(ctx context.Context) ([]model.TodoRecord, error) {
	docs, err := r.query(ctx, "list todos", listTodosQuery, map[string]any{
		"table": TodoTable,
	})
	if err != nil {
		return nil, err
	}

	return records(docs), nil
}

// FindByID implements TodoRepository
func (r *SurrealTodoRepository) FindByID(ctx context.Context, id idgen.ID) (model.TodoRecord, error) {
	return r.one(ctx, "get todo", id, getTodoQuery, map[string]any{
		"id": todoRecordID(id),
	})
}

// Update implements TodoRepository. The schema clamps updated_at so it
// never precedes the write.
func (r *SurrealTodoRepository) Update(ctx context.Context, id idgen.ID, changes model.TodoChanges) (model.TodoRecord, error) {
	return r.one(ctx, "update todo", id, updateTodoQuery, map[string]any{
		"table": TodoTable,
		"id":    todoRecordID(id),
		"changes": map[string]any{
			"subject":     changes.Subject,
			"description": changes.Description,
			"is_done":     changes.IsDone,
			"due_date":    datetime(changes.DueDate),
			"updated_at":  datetime(changes.UpdatedAt),
		},
	})
}

// Delete implements TodoRepository
func (r *SurrealTodoRepository) Delete(ctx context.Context, id idgen.ID) (model.TodoRecord, error) {
	return r.one(ctx, "delete todo", id, deleteTodoQuery, map[string]any{
		"id": todoRecordID(id),
	})
}

// Search implements TodoRepository using the BM25 indexes on subject and
// description
func (r *SurrealTodoRepository) Search(ctx context.Context, q string) ([]model.TodoRecord, error) {
	docs, err := r.query(ctx, "search todos", searchTodosQuery, map[string]any{
		"table": TodoTable,
		"q":     q,
	})
	if err != nil {
		return nil, err
	}

	return records(docs), nil
}

func (r *SurrealTodoRepository) one(ctx context.Context, op string, id idgen.ID, sql string, vars map[string]any) (model.TodoRecord, error) {
	docs, err := r.query(ctx, op, sql, vars)
	if err != nil {
		return model.TodoRecord{}, err
	}

	if len(docs) == 0 {
		return model.TodoRecord{}, ErrTodoNotFound{ID: id.String()}
	}

	return docs[0].record(), nil
}

func (r *SurrealTodoRepository) query(ctx context.Context, op, sql string, vars map[string]any) ([]todoDocument, error) {
	res, err := surrealdb.Query[[]todoDocument](ctx, r.db, sql, vars)
	if err != nil {
		return nil, classify(op, err)
	}

	if res == nil || len(*res) == 0 {
		return nil, &QueryError{Op: op, Err: errEmptyResponse}
	}

	result := (*res)[0]
	if result.Status != "OK" {
		return nil, &QueryError{Op: op, Err: fmt.Errorf("statement status %s", result.Status)}
	}

	return result.Result, nil
}

func records(docs []todoDocument) []model.TodoRecord {
	out := make([]model.TodoRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.record())
	}
	return out
}

// SurrealHealthRepository implements HealthRepository on SurrealDB
type SurrealHealthRepository struct {
	db *surrealdb.DB
}

// NewSurrealHealthRepository creates a health repository
func NewSurrealHealthRepository(db *surrealdb.DB) *SurrealHealthRepository {
	return &SurrealHealthRepository{db: db}
}

// Check implements HealthRepository
func (r *SurrealHealthRepository) Check(ctx context.Context) error {
	const op = "ping"

	res, err := surrealdb.Query[bool](ctx, r.db, pingQuery, nil)
	if err != nil {
		return classify(op, err)
	}

	if res == nil || len(*res) == 0 || !(*res)[0].Result {
		return &QueryError{Op: op, Err: errEmptyResponse}
	}

	return nil
}
