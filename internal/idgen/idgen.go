// package idgen mints and parses the identifiers assigned to todo items
package idgen

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ID identifies a todo item. It is a ULID: a 26 character, time prefixed,
// lexicographically sortable token.
type ID = ulid.ULID

// ErrInvalidIdentifier is wrapped by every Parse failure
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Generator produces new identifiers and converts them to and from text
type Generator interface {
	// Generate returns a fresh identifier
	Generate() ID

	// Parse converts text into an identifier
	Parse(value string) (ID, error)

	// String returns the canonical text of an identifier
	String(id ID) string
}

// ULIDGenerator is the production Generator. It is safe for concurrent use.
type ULIDGenerator struct{}

// NewULIDGenerator creates a ULID generator
func NewULIDGenerator() ULIDGenerator {
	return ULIDGenerator{}
}

// Generate implements Generator
func (ULIDGenerator) Generate() ID {
	// ulid.Make draws from a process wide monotonic entropy source guarded by a mutex
	return ulid.Make()
}

// Parse implements Generator
func (ULIDGenerator) Parse(value string) (ID, error) {
	return parse(value)
}

// String implements Generator
func (ULIDGenerator) String(id ID) string {
	return id.String()
}

// Fixed hands out the same identifier on every Generate call
type Fixed struct {
	value ID
}

// NewFixed creates a generator that always returns id
func NewFixed(id ID) Fixed {
	return Fixed{value: id}
}

// MustParseFixed creates a generator that always returns the parsed value
func MustParseFixed(value string) Fixed {
	id, err := parse(value)
	if err != nil {
		panic(err)
	}

	return NewFixed(id)
}

// Generate implements Generator
func (f Fixed) Generate() ID {
	return f.value
}

// Parse implements Generator
func (Fixed) Parse(value string) (ID, error) {
	return parse(value)
}

// String implements Generator
func (Fixed) String(id ID) string {
	return id.String()
}

func parse(value string) (ID, error) {
	id, err := ulid.ParseStrict(value)
	if err != nil {
		return ID{}, fmt.Errorf("%w '%s': %v", ErrInvalidIdentifier, value, err)
	}

	return id, nil
}
