package taxjar

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the TaxJar client.
var (
	// ErrMissingAPIKey indicates the client was constructed without credentials.
	ErrMissingAPIKey = errors.New("please provide a TaxJar API key")

	// ErrInvalidParams indicates a parameter object failed validation before
	// any request was built.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrInvalidResponse indicates a success payload could not be decoded
	// into its envelope.
	ErrInvalidResponse = errors.New("invalid response from TaxJar API")

	// ErrServiceFailure is matched by every error produced for a status >= 400.
	ErrServiceFailure = errors.New("TaxJar API returned failure status")
)

// ServiceError is the structured failure payload returned by the API.
type ServiceError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// APIError represents a TaxJar API error response
type APIError struct {
	StatusCode int
	Err        ServiceError
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Err.Error + " - " + e.Err.Detail
}

// Is reports whether target is ErrServiceFailure.
func (e *APIError) Is(target error) bool {
	return target == ErrServiceFailure
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnprocessable checks if the service rejected the parameters
func (e *APIError) IsUnprocessable() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

// IsRateLimited checks if the request was throttled
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the failure happened on the service side
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MalformedErrorPayloadError is returned for a failure status whose body is
// not a usable {"error","detail"} object.
type MalformedErrorPayloadError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *MalformedErrorPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed error payload (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("malformed error payload (status %d)", e.StatusCode)
}

func (e *MalformedErrorPayloadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrServiceFailure.
func (e *MalformedErrorPayloadError) Is(target error) bool {
	return target == ErrServiceFailure
}
