package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe a schema to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrTooDeep         = errors.New("schema too deeply nested")
	ErrTooLarge        = errors.New("schema expands beyond the size limit")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeReference  ErrorType = "reference"
	ErrorTypeResolution ErrorType = "resolution"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewReferenceError creates a new error for a reference that cannot be classified or split
func NewReferenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeReference,
		Message: message,
		Err:     err,
	}
}

// NewResolutionError creates a new error for a failed URI resolution
func NewResolutionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeResolution,
		Message: message,
		Err:     err,
	}
}

// NewExtractionError creates a new error for an aborted schema traversal
func NewExtractionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExtraction,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message) + limitHint(appErr)
		case ErrorTypeReference:
			return fmt.Sprintf("Reference error: %s. Internal references start with '#' followed by a JSON Pointer such as #/definitions/name; external references need a prefix such as file:// or http://.", appErr.Message)
		case ErrorTypeResolution:
			return fmt.Sprintf("Resolution error: %s. Identifiers and references must be valid URI references; set the scope of the document root with --base-scope or base_scope in .schemaref.yml.", appErr.Message)
		case ErrorTypeExtraction:
			if hint := limitHint(appErr); hint != "" {
				return fmt.Sprintf("Extraction error: %s", appErr.Message) + hint
			}
			return fmt.Sprintf("Extraction error: %s. The traversal stopped early and no results were written.", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON or YAML schema."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single schema document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with a schema."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe a schema to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrTooDeep) {
		return "Error: The schema is too deeply nested."
	}
	if errors.Is(err, ErrTooLarge) {
		return "Error: The schema expands beyond the size limit."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// limitHint suggests how to get past a nesting or size limit
func limitHint(err *AppError) string {
	switch {
	case errors.Is(err.Err, ErrTooDeep):
		return ". Raise the limit with --max-depth or max_depth in .schemaref.yml."
	case errors.Is(err.Err, ErrTooLarge):
		return ". YAML aliases expand to far more values than the document holds; inline the shared parts or reduce the aliasing."
	default:
		return ""
	}
}
