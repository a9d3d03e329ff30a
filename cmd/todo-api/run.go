package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cirocosta/todo-api-go/internal/api"
	"github.com/cirocosta/todo-api-go/internal/clock"
	"github.com/cirocosta/todo-api-go/internal/config"
	"github.com/cirocosta/todo-api-go/internal/database"
	"github.com/cirocosta/todo-api-go/internal/idgen"
	"github.com/cirocosta/todo-api-go/internal/migration"
	"github.com/cirocosta/todo-api-go/internal/repository"
	"github.com/cirocosta/todo-api-go/internal/service"
)

func newRunCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations before serving")

	return cmd
}

func runServer(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()

	// create context that listens for interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(context.Background()); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	healthRepo := repository.NewSurrealHealthRepository(driver.DB())
	if err := healthRepo.Check(ctx); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	if migrate {
		if err := migration.NewMigrator(migration.NewSurrealExecutor(driver.DB()), logger).Apply(ctx); err != nil {
			return err
		}
	}

	// setup dependencies
	c := clock.NewSystem()
	todoRepo := repository.NewSurrealTodoRepository(driver.DB())

	r := api.NewRouter(api.Config{
		Todos:          service.NewTodoService(todoRepo, c, idgen.NewULIDGenerator(), logger),
		Health:         service.NewHealthService(healthRepo, logger),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		Title:          cfg.App.Name,
		Version:        cfg.App.Version,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// wait for interrupt or a listener failure
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	// shutdown server gracefully
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")

	return nil
}
