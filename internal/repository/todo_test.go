package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirocosta/todo-api-go/internal/clock"
	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/model"
)

var (
	frozenAt = time.Date(2023, time.November, 4, 15, 32, 34, 205052000, time.UTC)

	groceries = model.Todo{
		ID:          idgen.MustParseFixed("01HEEQ3Y8QJ8PWSWAG0V5ZNF3G").Generate(),
		Subject:     "Buy groceries",
		Description: "Buy groceries from the supermarket for the weekend.",
		DueDate:     frozenAt.Add(48 * time.Hour),
		CreatedAt:   frozenAt,
		UpdatedAt:   frozenAt,
	}

	laundry = model.Todo{
		ID:          idgen.MustParseFixed("01HEEQ3Y8QJ8PWSWAG0V5ZNF3H").Generate(),
		Subject:     "Do the laundry",
		Description: "Wash the towels and buy more detergent at the supermarket.",
		DueDate:     frozenAt.Add(24 * time.Hour),
		CreatedAt:   frozenAt.Add(time.Minute),
		UpdatedAt:   frozenAt.Add(time.Minute),
	}

	garden = model.Todo{
		ID:          idgen.MustParseFixed("01HEEQ3Y8QJ8PWSWAG0V5ZNF3J").Generate(),
		Subject:     "Water the garden",
		Description: "Tomatoes first.",
		DueDate:     frozenAt,
		CreatedAt:   frozenAt.Add(-time.Hour),
		UpdatedAt:   frozenAt.Add(-time.Hour),
	}
)

func recordOf(todo model.Todo) model.TodoRecord {
	return model.TodoRecord{
		ID:          todo.ID.String(),
		Subject:     todo.Subject,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func seeded(t *testing.T, todos ...model.Todo) *InMemoryTodoRepository {
	t.Helper()

	repo := NewInMemoryTodoRepository(clock.NewFrozen(frozenAt))
	for _, todo := range todos {
		_, err := repo.Create(context.Background(), todo)
		require.NoError(t, err)
	}

	return repo
}

func TestInMemoryCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seeded(t)

	got, err := repo.Create(ctx, groceries)
	require.NoError(t, err)

	if diff := cmp.Diff(recordOf(groceries), got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, repo.Len())

	_, err = repo.Create(ctx, groceries)
	var queryErr *QueryError
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, 1, repo.Len())
}

func TestInMemoryFindAllOrdersByCreation(t *testing.T) {
	t.Parallel()

	repo := seeded(t, laundry, groceries, garden)

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)

	want := []model.TodoRecord{recordOf(garden), recordOf(groceries), recordOf(laundry)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemoryFindAllEmpty(t *testing.T) {
	t.Parallel()

	got, err := seeded(t).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInMemoryPointOperations(t *testing.T) {
	t.Parallel()

	unknown := idgen.MustParseFixed("01HEEQ3Y8QJ8PWSWAG0V5ZNF3Z").Generate()
	changes := model.TodoChanges{
		Subject:     "Buy groceries",
		Description: "Only milk",
		IsDone:      true,
		DueDate:     frozenAt,
		UpdatedAt:   frozenAt.Add(time.Hour),
	}

	for name, tc := range map[string]struct {
		run     func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error)
		id      idgen.ID
		want    model.TodoRecord
		wantLen int
		wantErr error
	}{
		"find existing": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.FindByID(context.Background(), id)
			},
			id:      groceries.ID,
			want:    recordOf(groceries),
			wantLen: 2,
		},
		"find unknown": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.FindByID(context.Background(), id)
			},
			id:      unknown,
			wantLen: 2,
			wantErr: ErrTodoNotFound{ID: unknown.String()},
		},
		"update existing": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.Update(context.Background(), id, changes)
			},
			id: groceries.ID,
			want: model.TodoRecord{
				ID:          groceries.ID.String(),
				Subject:     "Buy groceries",
				Description: "Only milk",
				IsDone:      true,
				DueDate:     frozenAt,
				CreatedAt:   groceries.CreatedAt,
				UpdatedAt:   frozenAt.Add(time.Hour),
			},
			wantLen: 2,
		},
		"update unknown": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.Update(context.Background(), id, changes)
			},
			id:      unknown,
			wantLen: 2,
			wantErr: ErrTodoNotFound{ID: unknown.String()},
		},
		"delete existing": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.Delete(context.Background(), id)
			},
			id:      laundry.ID,
			want:    recordOf(laundry),
			wantLen: 1,
		},
		"delete unknown": {
			run: func(r *InMemoryTodoRepository, id idgen.ID) (model.TodoRecord, error) {
				return r.Delete(context.Background(), id)
			},
			id:      unknown,
			wantLen: 2,
			wantErr: ErrTodoNotFound{ID: unknown.String()},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := seeded(t, groceries, laundry)

			got, err := tc.run(repo, tc.id)
			assert.Equal(t, tc.wantLen, repo.Len())

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInMemoryUpdateClampsUpdatedAt(t *testing.T) {
	t.Parallel()

	repo := seeded(t, groceries)

	got, err := repo.Update(context.Background(), groceries.ID, model.TodoChanges{
		Subject:     groceries.Subject,
		Description: groceries.Description,
		DueDate:     groceries.DueDate,
		UpdatedAt:   frozenAt.Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, frozenAt, got.UpdatedAt)
	assert.Equal(t, groceries.CreatedAt, got.CreatedAt)
}

func TestInMemorySearch(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		q    string
		want []model.TodoRecord
	}{
		"subject hits rank above description hits": {
			q:    "buy",
			want: []model.TodoRecord{recordOf(groceries), recordOf(laundry)},
		},
		"case insensitive": {
			q:    "SUPERMARKET",
			want: []model.TodoRecord{recordOf(groceries), recordOf(laundry)},
		},
		"every term must be present": {
			q:    "tomatoes garden",
			want: []model.TodoRecord{},
		},
		"terms in one field": {
			q:    "water garden",
			want: []model.TodoRecord{recordOf(garden)},
		},
		"no match": {
			q:    "no-match-token",
			want: []model.TodoRecord{},
		},
		"only punctuation": {
			q:    "?!",
			want: []model.TodoRecord{},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := seeded(t, groceries, laundry, garden)

			got, err := repo.Search(context.Background(), tc.q)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("search mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInMemoryCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := seeded(t, groceries)

	_, err := repo.FindAll(ctx)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "list todos", connErr.Op)
	assert.True(t, errors.Is(err, context.Canceled))
}
