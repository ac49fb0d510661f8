package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeUpstream      ErrorType = "upstream"
	ErrorTypeSerialization ErrorType = "serialization"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeInternal      ErrorType = "internal"
)

// Detail keys carried by upstream errors
const (
	DetailStatus = "status"
	DetailBody   = "body"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is matching. Never attach details to these; build a
// fresh error with the constructors below instead.
var (
	ErrConfiguration = NewDomainError(ErrorTypeConfiguration, "configuration error", nil)
	ErrUpstream      = NewDomainError(ErrorTypeUpstream, "upstream error", nil)
	ErrSerialization = NewDomainError(ErrorTypeSerialization, "serialization error", nil)
)

// NewConfigurationError reports a missing or malformed setting
func NewConfigurationError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeConfiguration, message, err)
}

// NewUpstreamError reports a non-2xx response from Ghost
func NewUpstreamError(status int, body string) *DomainError {
	return NewDomainError(ErrorTypeUpstream, fmt.Sprintf("ghost responded with status %d", status), nil).
		WithDetail(DetailStatus, status).
		WithDetail(DetailBody, body)
}

// NewSerializationError reports a body that could not be encoded or decoded
func NewSerializationError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeSerialization, message, err)
}

// NewValidationError reports invalid caller input
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, nil)
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrorTypeNotFound, message, nil)
}

// Error type checking helper functions

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return GetErrorType(err) == ErrorTypeConfiguration
}

// IsUpstreamError checks if an error is an upstream (Ghost) error
func IsUpstreamError(err error) bool {
	return GetErrorType(err) == ErrorTypeUpstream
}

// IsSerializationError checks if an error is a serialization error
func IsSerializationError(err error) bool {
	return GetErrorType(err) == ErrorTypeSerialization
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// UpstreamStatus returns the Ghost status code carried by an upstream error, or 0
func UpstreamStatus(err error) int {
	if !IsUpstreamError(err) {
		return 0
	}
	status, _ := GetErrorDetails(err)[DetailStatus].(int)
	return status
}

// UpstreamBody returns the Ghost response body carried by an upstream error
func UpstreamBody(err error) string {
	if !IsUpstreamError(err) {
		return ""
	}
	body, _ := GetErrorDetails(err)[DetailBody].(string)
	return body
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
