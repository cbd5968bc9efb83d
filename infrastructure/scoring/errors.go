package scoring

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by scoring backends.
var (
	// ErrEmptyAPIKey indicates that an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrEmptyEndpoint indicates that a backend requires an endpoint URL.
	ErrEmptyEndpoint = errors.New("endpoint cannot be empty")
	// ErrEmptyResponse indicates that the backend returned an empty response body.
	ErrEmptyResponse = errors.New("empty response from scoring backend")
	// ErrScoreShape indicates that the backend's response matched neither of
	// the two supported score shapes (labeled objects or a raw numeric array).
	ErrScoreShape = errors.New("unrecognized score output shape")
	// ErrScoreCount indicates that the backend returned a score list whose
	// length does not match the submitted batch.
	ErrScoreCount = errors.New("score count does not match batch size")
)

// ErrorType classifies an error from a scoring backend for standardized
// handling, such as determining retryability.
type ErrorType int

const (
	// ErrorTypeUnknown indicates an error of an undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication indicates invalid or missing credentials.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit indicates that a rate limit has been exceeded.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest indicates a malformed request or invalid parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates that a requested resource could not be found.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a problem on the backend's side.
	ErrorTypeServerError
	// ErrorTypeContentPolicy indicates that the request was blocked by a content policy.
	ErrorTypeContentPolicy
	// ErrorTypeNetwork indicates a client-side network problem.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates that the request timed out.
	ErrorTypeTimeout
)

// BackendError is a structured error from a scoring backend. It normalizes
// backend-specific failures into a common format with a classified type.
type BackendError struct {
	// Type classifies the error into a standard category.
	Type ErrorType
	// Backend identifies the scoring backend that produced the error.
	Backend string
	// StatusCode holds the HTTP status code from the response, if applicable.
	StatusCode int
	// Message contains the user-facing error message from the backend.
	Message string
	// WrappedError holds the original underlying error for chaining.
	WrappedError error
}

// Error returns a string representation of the BackendError.
func (e *BackendError) Error() string {
	base := fmt.Sprintf("%s error", e.Backend)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}

	typeStr := e.typeString()
	if typeStr != "" {
		base += fmt.Sprintf(" [%s]", typeStr)
	}

	if e.Message != "" {
		base += ": " + e.Message
	}

	if e.WrappedError != nil {
		base += fmt.Sprintf(": %v", e.WrappedError)
	}

	return base
}

// Unwrap returns the underlying wrapped error, allowing inspection with
// errors.Is and errors.As.
func (e *BackendError) Unwrap() error { return e.WrappedError }

// IsRetryable reports whether a request that failed with this error should
// be retried. Transient issues like rate limits and server-side errors are
// retryable; authentication and request errors are not.
func (e *BackendError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

func (e *BackendError) typeString() string {
	switch e.Type {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeContentPolicy:
		return "content_policy"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return ""
	}
}

// NewBackendError builds a standardized error from a backend-specific failure.
func NewBackendError(backend string, errType ErrorType, statusCode int, message string, wrapped error) *BackendError {
	return &BackendError{
		Type:         errType,
		Backend:      backend,
		StatusCode:   statusCode,
		Message:      message,
		WrappedError: wrapped,
	}
}

// ErrorClassifier standardizes backend-specific errors into BackendError
// instances using context such as HTTP status codes.
type ErrorClassifier struct {
	// Backend is the name of the scoring backend this classifier works for.
	Backend string
}

// ClassifyHTTPError creates a BackendError from an HTTP status code.
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, message string, err error) *BackendError {
	var errType ErrorType
	var userMessage string

	switch statusCode {
	case 401, 403:
		errType = ErrorTypeAuthentication
		userMessage = fmt.Sprintf("%s authentication failed", ec.Backend)
	case 429:
		errType = ErrorTypeRateLimit
		userMessage = fmt.Sprintf("%s rate limit exceeded", ec.Backend)
	case 400:
		errType = ErrorTypeBadRequest
		userMessage = message
	case 404:
		errType = ErrorTypeNotFound
		userMessage = message
	case 500, 502, 503, 504:
		errType = ErrorTypeServerError
		userMessage = message
	default:
		if statusCode >= 400 && statusCode < 500 {
			errType = ErrorTypeBadRequest
		} else if statusCode >= 500 {
			errType = ErrorTypeServerError
		} else {
			errType = ErrorTypeUnknown
		}
		userMessage = message
	}

	return NewBackendError(ec.Backend, errType, statusCode, userMessage, err)
}

// ClassifyContextError creates a BackendError from a context-related error
// such as context.DeadlineExceeded or context.Canceled.
func (ec *ErrorClassifier) ClassifyContextError(err error) *BackendError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewBackendError(ec.Backend, ErrorTypeTimeout, 0, "context deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return NewBackendError(ec.Backend, ErrorTypeNetwork, 0, "request canceled", err)
	default:
		return NewBackendError(ec.Backend, ErrorTypeUnknown, 0, "", err)
	}
}
