package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "JSON parsing error: invalid JSON syntax",
		},
		{
			name:     "reference error",
			err:      NewReferenceError("reference \"a.json\" is missing a prefix", nil),
			expected: "Reference error: reference \"a.json\" is missing a prefix. Internal references start with '#' followed by a JSON Pointer such as #/definitions/name; external references need a prefix such as file:// or http://.",
		},
		{
			name:     "resolution error",
			err:      NewResolutionError("cannot resolve \"%zz\"", nil),
			expected: "Resolution error: cannot resolve \"%zz\". Identifiers and references must be valid URI references; set the scope of the document root with --base-scope or base_scope in .schemaref.yml.",
		},
		{
			name:     "extraction error",
			err:      NewExtractionError("predicate failed at /a", nil),
			expected: "Extraction error: predicate failed at /a. The traversal stopped early and no results were written.",
		},
		{
			name:     "extraction error - too deep",
			err:      NewExtractionError("failed to extract keywords", ErrTooDeep),
			expected: "Extraction error: failed to extract keywords. Raise the limit with --max-depth or max_depth in .schemaref.yml.",
		},
		{
			name:     "parsing error - too deep",
			err:      NewParsingError("nesting exceeds 512 levels", ErrTooDeep),
			expected: "JSON parsing error: nesting exceeds 512 levels. Raise the limit with --max-depth or max_depth in .schemaref.yml.",
		},
		{
			name:     "parsing error - alias expansion",
			err:      NewParsingError("aliases expand beyond 10000 values", ErrTooLarge),
			expected: "JSON parsing error: aliases expand beyond 10000 values. YAML aliases expand to far more values than the document holds; inline the shared parts or reduce the aliasing.",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide a JSON or YAML schema.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - too deep",
			err:      ErrTooDeep,
			expected: "Error: The schema is too deeply nested.",
		},
		{
			name:     "standard error - too large",
			err:      ErrTooLarge,
			expected: "Error: The schema expands beyond the size limit.",
		},
		{
			name:     "wrapped standard error",
			err:      fmt.Errorf("loading schema: %w", ErrFileNotFound),
			expected: "Error: The specified file could not be found. Please check the file path.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_ErrorsIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("refs: %w", NewReferenceError("bad ref", ErrInvalidFilePath))

	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeReference}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeParsing}))
	assert.True(t, errors.Is(err, ErrInvalidFilePath))
}
