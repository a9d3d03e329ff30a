// package migration defines the SurrealDB schema of the todo table and its
// search indexes
package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"
)

// Step is a named group of SurrealQL statements applied together
type Step struct {
	Name      string
	Statement string
}

// Steps are applied in order. Every statement is guarded with IF NOT EXISTS
// so applying them twice is harmless.
var Steps = []Step{
	{
		Name: "create todo table",
		Statement: `
DEFINE TABLE IF NOT EXISTS todo SCHEMAFULL;
DEFINE FIELD IF NOT EXISTS subject ON TABLE todo TYPE string ASSERT string::len($value) > 0;
DEFINE FIELD IF NOT EXISTS description ON TABLE todo TYPE string ASSERT string::len($value) > 0;
DEFINE FIELD IF NOT EXISTS is_done ON TABLE todo TYPE bool DEFAULT false;
DEFINE FIELD IF NOT EXISTS due_date ON TABLE todo TYPE datetime;
DEFINE FIELD IF NOT EXISTS created_at ON TABLE todo TYPE datetime;
DEFINE FIELD IF NOT EXISTS updated_at ON TABLE todo TYPE datetime
	VALUE IF $before != NONE AND $value < time::now() THEN time::now() ELSE $value END;`,
	},
	{
		Name: "create todo analyzer",
		Statement: `
DEFINE ANALYZER IF NOT EXISTS todo_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);`,
	},
	{
		Name: "create todo search indexes",
		Statement: `
DEFINE INDEX IF NOT EXISTS todo_subject_search ON TABLE todo FIELDS subject SEARCH ANALYZER todo_analyzer BM25;
DEFINE INDEX IF NOT EXISTS todo_description_search ON TABLE todo FIELDS description SEARCH ANALYZER todo_analyzer BM25;`,
	},
	{
		Name: "create todo listing index",
		Statement: `
DEFINE INDEX IF NOT EXISTS todo_created_at ON TABLE todo FIELDS created_at;`,
	},
}

// Executor runs SurrealQL statements
type Executor interface {
	Exec(ctx context.Context, statement string) error
}

// SurrealExecutor runs statements on a SurrealDB session
type SurrealExecutor struct {
	db *surrealdb.DB
}

// NewSurrealExecutor creates an executor on an authenticated session
func NewSurrealExecutor(db *surrealdb.DB) *SurrealExecutor {
	return &SurrealExecutor{db: db}
}

// Exec implements Executor
func (e *SurrealExecutor) Exec(ctx context.Context, statement string) error {
	res, err := surrealdb.Query[any](ctx, e.db, statement, nil)
	if err != nil {
		return err
	}

	if res == nil {
		return nil
	}

	for i, result := range *res {
		if result.Status != "OK" {
			return fmt.Errorf("statement %d: status %s: %v", i+1, result.Status, result.Result)
		}
	}

	return nil
}

// Migrator applies Steps through an Executor
type Migrator struct {
	exec   Executor
	logger *slog.Logger
	steps  []Step
}

// NewMigrator creates a migrator applying the default steps
func NewMigrator(exec Executor, logger *slog.Logger) *Migrator {
	return &Migrator{
		exec:   exec,
		logger: logger,
		steps:  Steps,
	}
}

// Apply runs every step in order and stops at the first failure
func (m *Migrator) Apply(ctx context.Context) error {
	for i, step := range m.steps {
		log := m.logger.With("step", step.Name, "position", i+1, "total", len(m.steps))

		log.Info("applying migration step")
		if err := m.exec.Exec(ctx, step.Statement); err != nil {
			log.Error("migration step failed", "error", err)
			return fmt.Errorf("migration step '%s': %w", step.Name, err)
		}
	}

	m.logger.Info("migrations applied", "steps", len(m.steps))

	return nil
}
