package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cirocosta/todo-api-go/internal/config"
	"github.com/cirocosta/todo-api-go/internal/database"
	"github.com/cirocosta/todo-api-go/internal/migration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the todo table and its indexes",
		Long: `Applies the SurrealDB schema of the service. Every statement is
idempotent, so running it against an up to date database changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations()
		},
	}
}

func runMigrations() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer driver.Close(context.Background())

	return migration.NewMigrator(migration.NewSurrealExecutor(driver.DB()), logger).Apply(ctx)
}
