// package database owns the SurrealDB session shared by the repositories
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/cirocosta/todo-api-go/internal/config"
)

// Driver holds an authenticated session scoped to one namespace and database
type Driver struct {
	db     *surrealdb.DB
	logger *slog.Logger
}

// Connect opens a session, signs in as the configured root user and selects
// the namespace and database
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Driver, error) {
	logger = logger.With("url", cfg.URL, "namespace", cfg.Namespace, "database", cfg.Name)

	logger.Info("connecting to database")
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to '%s': %w", cfg.URL, err)
	}

	logger.Info("signing in", "user", cfg.Username)
	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: cfg.Username,
		Password: cfg.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("sign in as '%s': %w", cfg.Username, err)
	}

	logger.Info("selecting namespace and database")
	if err := db.Use(ctx, cfg.Namespace, cfg.Name); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Name, err)
	}

	logger.Info("connected to database")

	return &Driver{db: db, logger: logger}, nil
}

// DB returns the underlying session
func (d *Driver) DB() *surrealdb.DB {
	return d.db
}

// Close terminates the session
func (d *Driver) Close(ctx context.Context) error {
	d.logger.Info("closing database connection")
	if err := d.db.Close(ctx); err != nil {
		return fmt.Errorf("close database connection: %w", err)
	}
	return nil
}
