package repository

import "context"

// HealthRepository reports whether the backing store answers
type HealthRepository interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a function into a HealthRepository
type HealthCheckFunc func(ctx context.Context) error

// Check implements HealthRepository
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}
