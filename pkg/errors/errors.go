package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of a failed Reddit API call
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("reddit %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates an Error of the given type
func New(errorType ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// TypeForStatus maps an HTTP status code to an ErrorType. Success codes map to "".
func TypeForStatus(statusCode int) ErrorType {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return ""
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// FromStatus builds an Error for a non-2xx response, or returns nil for success codes.
func FromStatus(statusCode int, url string) *Error {
	errorType := TypeForStatus(statusCode)
	if errorType == "" {
		return nil
	}

	var msg string
	switch errorType {
	case ErrorTypeAuth:
		msg = "authentication rejected"
	case ErrorTypeNotFound:
		msg = "resource not found"
	case ErrorTypeRateLimit:
		msg = "rate limit exceeded"
	case ErrorTypeServerError:
		msg = "server error"
	default:
		msg = fmt.Sprintf("unexpected status code: %d", statusCode)
	}

	return New(errorType, statusCode, "%s: %s", msg, url)
}
