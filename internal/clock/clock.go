// package clock provides the time source used when stamping todo items
package clock

import (
	"fmt"
	"time"
)

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// NewSystem creates a wall clock
func NewSystem() System {
	return System{}
}

// Now implements Clock
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Frozen always reports the same instant
type Frozen struct {
	at time.Time
}

// NewFrozen creates a clock stopped at t
func NewFrozen(t time.Time) Frozen {
	return Frozen{at: t.UTC()}
}

// MustParseFrozen creates a clock stopped at the given RFC3339 timestamp
func MustParseFrozen(value string) Frozen {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		panic(fmt.Errorf("parse frozen time '%s': %w", value, err))
	}

	return NewFrozen(t)
}

// Now implements Clock
func (f Frozen) Now() time.Time {
	return f.at
}
