package service

import (
	"context"
	"log/slog"

	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/internal/repository"
)

// HealthService reports the status of the API and its database
type HealthService struct {
	repo   repository.HealthRepository
	logger *slog.Logger
}

// NewHealthService creates a health service
func NewHealthService(repo repository.HealthRepository, logger *slog.Logger) *HealthService {
	return &HealthService{repo: repo, logger: logger}
}

// Check never fails: an unreachable database shows up as NOK
func (s *HealthService) Check(ctx context.Context) model.HealthStatusResponse {
	status := model.HealthStatusResponse{
		API:      model.StatusOK,
		Database: model.StatusOK,
	}

	if err := s.repo.Check(ctx); err != nil {
		s.logger.WarnContext(ctx, "database health check failed", "error", err)
		status.Database = model.StatusNotOK
	}

	return status
}
