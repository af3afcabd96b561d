// Package errors defines the error taxonomy for the Travelpac report
// pipeline. Every stage failure maps onto one of the kinds below; no stage
// recovers from an error, so a kind tells the caller what went wrong, not
// what to retry.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind string

const (
	// KindNotFound means the input workbook does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindSchema means the sheet or header row does not match the expected
	// Travelpac schema, or a categorical value falls outside its domain.
	KindSchema Kind = "SCHEMA"
	// KindParsing means a cell could not be converted to its expected type.
	KindParsing Kind = "PARSING"
	// KindComputation means an aggregation reached an undefined operation,
	// such as a per-night division for a zero-nights row.
	KindComputation Kind = "COMPUTATION"
	// KindStorage means an output artifact could not be written.
	KindStorage Kind = "STORAGE"
	// KindConfig means the run configuration is invalid.
	KindConfig Kind = "CONFIG"
)

// PipelineError is the error type surfaced by every stage of the pipeline.
type PipelineError struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error for logging.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error.
func New(kind Kind, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsKind reports whether err is (or wraps) a PipelineError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// NewNotFoundError creates a NOT_FOUND error for a missing resource.
func NewNotFoundError(resource string, cause error) *PipelineError {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource), cause)
}

// NewSchemaError creates a SCHEMA error.
func NewSchemaError(message string, cause error) *PipelineError {
	return New(KindSchema, message, cause)
}

// NewParsingError creates a PARSING error.
func NewParsingError(message string, cause error) *PipelineError {
	return New(KindParsing, message, cause)
}

// NewComputationError creates a COMPUTATION error.
func NewComputationError(message string) *PipelineError {
	return New(KindComputation, message, nil)
}

// NewStorageError creates a STORAGE error.
func NewStorageError(message string, cause error) *PipelineError {
	return New(KindStorage, message, cause)
}

// NewConfigError creates a CONFIG error.
func NewConfigError(message string, cause error) *PipelineError {
	return New(KindConfig, message, cause)
}
