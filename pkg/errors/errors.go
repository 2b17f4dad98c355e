package errors

import (
	stderrors "errors"
	"fmt"
)

// As and Is forward to the standard library so callers matching typed errors
// do not need a second errors import.
func As(err error, target any) bool { return stderrors.As(err, target) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

// Error codes
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeBackend       = "BACKEND_ERROR"
	CodeExtraction    = "EXTRACTION_ERROR"
	CodeCache         = "CACHE_ERROR"
	CodeStorage       = "STORAGE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// StatusOf resolves the error code and HTTP status carried anywhere in the
// chain. Returns empty code and zero status for untyped errors.
func StatusOf(err error) (string, int) {
	var configErr *ConfigurationError
	if As(err, &configErr) {
		return configErr.Code, configErr.StatusCode
	}
	var backendErr *BackendError
	if As(err, &backendErr) {
		return backendErr.Code, backendErr.StatusCode
	}
	var extractionErr *ExtractionError
	if As(err, &extractionErr) {
		return extractionErr.Code, extractionErr.StatusCode
	}
	var cacheErr *CacheError
	if As(err, &cacheErr) {
		return cacheErr.Code, cacheErr.StatusCode
	}
	var storageErr *StorageError
	if As(err, &storageErr) {
		return storageErr.Code, storageErr.StatusCode
	}
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code, appErr.StatusCode
	}
	return "", 0
}

// ConfigurationError marks a caller bug: an unknown platform, an invalid
// platform/post-type pairing, or a malformed profile. Never retried.
type ConfigurationError struct {
	*AppError
	Field string
	Value any
}

func NewConfigurationError(message, field string, value any) *ConfigurationError {
	return &ConfigurationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeConfiguration,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// BackendError carries the upstream status and body of a failed generation
// call so the caller can log it and decide whether a retry is worth paying for.
type BackendError struct {
	*AppError
	Provider       string
	UpstreamStatus int
	Body           string
}

func NewBackendError(message, provider string, upstreamStatus int, body string) *BackendError {
	return &BackendError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeBackend,
			StatusCode: 502,
			Context: map[string]any{
				"provider":        provider,
				"upstream_status": upstreamStatus,
			},
		},
		Provider:       provider,
		UpstreamStatus: upstreamStatus,
		Body:           body,
	}
}

// ExtractionError means no strategy could recover a valid structured result
// from the model output. RawText is kept verbatim for diagnostics.
type ExtractionError struct {
	*AppError
	RawText string
}

func NewExtractionError(message, rawText string, cause error) *ExtractionError {
	return &ExtractionError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeExtraction,
			StatusCode: 502,
			Context: map[string]any{
				"raw_length": len(rawText),
			},
			Cause: cause,
		},
		RawText: rawText,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StorageError struct {
	*AppError
	Operation string
}

func NewStorageError(message, operation string, cause error) *StorageError {
	return &StorageError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}
