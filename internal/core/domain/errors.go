package domain

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Naming errors
	ErrInvalidAppName = errors.New("invalid application name")
	ErrNamingConflict = errors.New("naming conflict")

	// Pipeline shape errors
	ErrInvalidCardinality = errors.New("invalid application count")
	ErrInvalidPlatform    = errors.New("invalid platform")
	ErrInvalidDeployType  = errors.New("invalid deploy type")

	// Per-application errors
	ErrInvalidEnvVars = errors.New("invalid env vars JSON")
	ErrIncompleteApp  = errors.New("incomplete application descriptor")
)

// FieldError wraps errors with context about which input field was rejected.
type FieldError struct {
	Field   string // e.g., "apps[1].deploy_type"
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError creates a new FieldError.
func NewFieldError(field, message string, err error) *FieldError {
	return &FieldError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// NamingConflictError reports an application whose derived reference prefix
// cannot be used, either because it collides with a reserved token or with
// another application in the same pipeline.
type NamingConflictError struct {
	Name   string
	Prefix string
	Reason string
}

func (e *NamingConflictError) Error() string {
	return fmt.Sprintf("naming conflict for %q (prefix %s): %s", e.Name, e.Prefix, e.Reason)
}

func (e *NamingConflictError) Unwrap() error {
	return ErrNamingConflict
}

// InvalidCardinalityError reports an application list outside [MinApps, MaxApps].
type InvalidCardinalityError struct {
	Count int
}

func (e *InvalidCardinalityError) Error() string {
	return fmt.Sprintf("pipeline must contain between %d and %d applications, got %d", MinApps, MaxApps, e.Count)
}

func (e *InvalidCardinalityError) Unwrap() error {
	return ErrInvalidCardinality
}
