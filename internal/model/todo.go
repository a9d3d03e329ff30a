// package model contains the domain entities and the payloads exchanged over HTTP
package model

import (
	"time"

	"github.com/cirocosta/todo-api-go/internal/idgen"
)

// Todo is the domain entity managed by the service
type Todo struct {
	ID          idgen.ID
	Subject     string
	Description string
	IsDone      bool
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Response converts the entity into its wire representation
func (t Todo) Response() TodoResponse {
	return TodoResponse{
		ID:          t.ID.String(),
		Subject:     t.Subject,
		Description: t.Description,
		IsDone:      t.IsDone,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TodoRecord is a todo as it comes out of storage. The id is kept as text
// until the service parses it back into an identifier.
type TodoRecord struct {
	ID          string
	Subject     string
	Description string
	IsDone      bool
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoChanges carries the fields an update replaces on a stored todo
type TodoChanges struct {
	Subject     string
	Description string
	IsDone      bool
	DueDate     time.Time
	UpdatedAt   time.Time
}

// CreateTodoRequest is used when creating a new todo item
type CreateTodoRequest struct {
	Subject     string    `json:"subject" doc:"Short summary of the todo item" example:"Buy groceries" validate:"min=1"`
	Description string    `json:"description" doc:"Detailed description of the todo item" example:"Buy groceries from the supermarket for the weekend." validate:"min=1"`
	DueDate     time.Time `json:"dueDate" doc:"When the todo item is due" example:"2023-11-04T15:32:34.205052Z" validate:"required"`
}

// UpdateTodoRequest is used when updating an existing todo item. Absent
// fields keep their stored value.
type UpdateTodoRequest struct {
	Subject     *string    `json:"subject,omitempty" doc:"Short summary of the todo item" example:"Buy groceries" validate:"omitnil,min=1"`
	Description *string    `json:"description,omitempty" doc:"Detailed description of the todo item" example:"Buy groceries from the supermarket for the weekend." validate:"omitnil,min=1"`
	IsDone      *bool      `json:"isDone,omitempty" doc:"Whether the todo item is done" example:"true"`
	DueDate     *time.Time `json:"dueDate,omitempty" doc:"When the todo item is due" example:"2023-11-04T15:32:34.205052Z"`
}

// SearchTodoRequest holds the query string of a search
type SearchTodoRequest struct {
	Q string `json:"q" query:"q" doc:"Terms searched in subject and description" example:"groceries" validate:"required"`
}

// TodoResponse is the wire representation of a todo item
type TodoResponse struct {
	ID          string    `json:"id" doc:"Unique identifier for the todo item" example:"01HEEQ3Y8QJ8PWSWAG0V5ZNF3G"`
	Subject     string    `json:"subject" doc:"Short summary of the todo item" example:"Buy groceries"`
	Description string    `json:"description" doc:"Detailed description of the todo item" example:"Buy groceries from the supermarket for the weekend."`
	IsDone      bool      `json:"isDone" doc:"Whether the todo item is done" example:"false"`
	DueDate     time.Time `json:"dueDate" doc:"When the todo item is due" example:"2023-11-04T15:32:34.205052Z"`
	CreatedAt   time.Time `json:"createdAt" doc:"When the todo item was created" example:"2023-11-04T15:32:34.205052Z"`
	UpdatedAt   time.Time `json:"updatedAt" doc:"When the todo item was last updated" example:"2023-11-04T15:32:34.205052Z"`
}

// Problem is the body of every non 2xx response
type Problem struct {
	Code   string   `json:"code" doc:"Machine readable error code" enum:"VALIDATION_ERROR,RESOURCE_NOT_FOUND,SERVER_ERROR"`
	Issues []string `json:"issues" doc:"Human readable descriptions of what went wrong"`
}

// Problem codes
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"
	CodeServerError      = "SERVER_ERROR"
)

// Health statuses
const (
	StatusOK    = "OK"
	StatusNotOK = "NOK"
)

// HealthStatusResponse reports the status of the API and its database
type HealthStatusResponse struct {
	API      string `json:"api" doc:"Status of the API" enum:"OK,NOK" example:"OK"`
	Database string `json:"database" doc:"Status of the database" enum:"OK,NOK" example:"OK"`
}
