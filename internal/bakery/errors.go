package bakery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation indicates missing or malformed input. Nothing was mutated.
	ErrValidation = errors.New("bakery: validation failed")
	// ErrDuplicateKey indicates an id collision on create.
	ErrDuplicateKey = errors.New("bakery: duplicate key")
	// ErrNotFound indicates a reference to a missing record.
	ErrNotFound = errors.New("bakery: not found")
	// ErrInsufficientStock indicates materials cannot cover an order. Nothing was mutated.
	ErrInsufficientStock = errors.New("bakery: insufficient stock")
	// ErrNegativeStock indicates a mutation would leave a material below zero.
	ErrNegativeStock = errors.New("bakery: negative stock not allowed")
	// ErrPersistence indicates the persistence adapter failed.
	ErrPersistence = errors.New("bakery: persistence failure")
)

// ValidationError lists the offending fields of a rejected input.
type ValidationError struct {
	Fields []string
	Err    error
}

// NewValidationError builds a ValidationError. When err holds validator
// field errors their namespaces are reported as fields.
func NewValidationError(err error, fields ...string) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
	}
	return &ValidationError{Fields: fields, Err: err}
}

// Invalid is a shorthand for a ValidationError without an underlying cause.
func Invalid(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// InsufficientStockError carries the per-material shortage list.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s required=%s available=%s shortage=%s",
			s.MaterialID, s.Required.String(), s.Available.String(), s.Shortage.String()))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientStock.Error(), strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceError wraps an adapter failure for one collection.
type PersistenceError struct {
	Collection Collection
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Collection, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// Duplicate wraps ErrDuplicateKey with the kind and id of the colliding record.
func Duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicateKey, kind, id)
}
