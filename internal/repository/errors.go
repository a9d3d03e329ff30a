// package repository provides data access and error types
package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/surrealdb/surrealdb.go/pkg/connection"
)

// ErrTodoNotFound is returned when a todo with the specified ID does not exist
type ErrTodoNotFound struct {
	ID string
}

// Error implements the error interface
func (e ErrTodoNotFound) Error() string {
	return fmt.Sprintf("todo with id %s not found", e.ID)
}

// ConnectionError is returned when the store could not be reached or the
// session was rejected
type ConnectionError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError is returned when the store rejected a statement
type QueryError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: query: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.Err
}

// transportFailures are messages of errors the client creates with
// errors.New when the websocket is gone
var transportFailures = []string{
	"connection is closed",
	"response channel closed",
}

func isTransportFailure(err error) bool {
	msg := err.Error()
	for _, failure := range transportFailures {
		if strings.Contains(msg, failure) {
			return true
		}
	}

	return false
}

// classify wraps an error coming out of the SurrealDB client into
// ConnectionError or QueryError
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *connection.RPCError
	if errors.As(err, &rpcErr) {
		return &QueryError{Op: op, Err: err}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr),
		isTransportFailure(err):
		return &ConnectionError{Op: op, Err: err}
	}

	return &QueryError{Op: op, Err: err}
}
