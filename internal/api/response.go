package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cirocosta/todo-api-go/internal/model"
	"github.com/cirocosta/todo-api-go/internal/service"
)

// serverIssue is the only detail a client gets about a server error
const serverIssue = "This is on us, we will take care of it."

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

// writeValidationProblem answers 400 with the given issues
func writeValidationProblem(w http.ResponseWriter, issues []string) {
	writeJSON(w, model.Problem{
		Code:   model.CodeValidationError,
		Issues: issues,
	}, http.StatusBadRequest)
}

// writeServerProblem answers 500 without any detail
func writeServerProblem(w http.ResponseWriter) {
	writeJSON(w, model.Problem{
		Code:   model.CodeServerError,
		Issues: []string{serverIssue},
	}, http.StatusInternalServerError)
}

// writeServiceError maps a service error onto its problem
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.ServerError(err)
	}

	switch svcErr.Kind {
	case service.KindValidation:
		writeValidationProblem(w, svcErr.Issues)
	case service.KindNotFound:
		problem := model.Problem{
			Code:   model.CodeResourceNotFound,
			Issues: []string{fmt.Sprintf("resource with id %s does not exist!", svcErr.Resource)},
		}
		logger.WarnContext(r.Context(), "resource not found",
			"method", r.Method,
			"path", r.URL.Path,
			"resource", svcErr.Resource,
		)
		writeJSON(w, problem, http.StatusNotFound)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", svcErr.Err,
		)
		writeServerProblem(w)
	}
}
