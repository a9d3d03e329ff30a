package service

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the errors returned by the services
type Kind int

const (
	// KindServer is a failure the caller cannot fix
	KindServer Kind = iota
	// KindValidation is a request that breaks a constraint
	KindValidation
	// KindNotFound is a request for a resource that does not exist
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "server"
	}
}

// Error is the only error type returned by the services
type Error struct {
	Kind Kind
	// Issues lists every violated constraint of a validation error
	Issues []string
	// Resource is the identifier a not found error refers to
	Resource string
	Err      error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("validation: %s", strings.Join(e.Issues, "; "))
	case KindNotFound:
		return fmt.Sprintf("resource %s not found", e.Resource)
	default:
		return fmt.Sprintf("server: %v", e.Err)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindServer when err is not an *Error
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindServer
}

// ValidationError builds a KindValidation error
func ValidationError(issues ...string) *Error {
	return &Error{Kind: KindValidation, Issues: issues}
}

// NotFoundError builds a KindNotFound error
func NotFoundError(resource string, err error) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Err: err}
}

// ServerError builds a KindServer error
func ServerError(err error) *Error {
	return &Error{Kind: KindServer, Err: err}
}
