package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches every not-found error regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the original error as its cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeZeroQuantity           = "ZERO_QUANTITY"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeCreditLimitExceeded    = "CREDIT_LIMIT_EXCEEDED"
	CodeInvalidEntryType       = "INVALID_ENTRY_TYPE"
	CodePaymentExceedsTotal    = "PAYMENT_EXCEEDS_TOTAL"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeSeriesNotConfigured    = "SERIES_NOT_CONFIGURED"
	CodeSeriesExhausted        = "SERIES_EXHAUSTED"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrZeroQuantity           = NewDomainError(CodeZeroQuantity, "Quantity must not be zero")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrCreditLimitExceeded    = NewDomainError(CodeCreditLimitExceeded, "Customer credit limit exceeded")
	ErrInvalidEntryType       = NewDomainError(CodeInvalidEntryType, "Entry type not allowed for this document")
	ErrPaymentExceedsTotal    = NewDomainError(CodePaymentExceedsTotal, "Paid amount exceeds document total")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrSeriesNotConfigured    = NewDomainError(CodeSeriesNotConfigured, "Number series is not configured")
	ErrSeriesExhausted        = NewDomainError(CodeSeriesExhausted, "Number series is exhausted")
)

// NewNotFoundError reports a missing entity, naming its id
func NewNotFoundError(entity string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", entity, id))
}

// NewConflictError wraps a storage-level conflict as a retryable domain error
func NewConflictError(message string, cause error) *DomainError {
	return WrapDomainError(CodeConcurrencyConflict, message, cause)
}

// ErrorKind is the coarse classification used to decide retry and surface behaviour
type ErrorKind string

const (
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindValidation    ErrorKind = "VALIDATION"
	KindConflict      ErrorKind = "CONFLICT"
	KindConfiguration ErrorKind = "CONFIGURATION"
	KindFatal         ErrorKind = "FATAL"
)

// KindOf classifies an error. Errors that are not domain errors are fatal.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if !errors.As(err, &de) {
		return KindFatal
	}
	switch de.Code {
	case CodeNotFound:
		return KindNotFound
	case CodeZeroQuantity, CodeInsufficientStock, CodeCreditLimitExceeded, CodeInvalidInput,
		CodeInvalidEntryType, CodePaymentExceedsTotal, CodeInvalidStateTransition:
		return KindValidation
	case CodeConcurrencyConflict:
		return KindConflict
	case CodeSeriesNotConfigured, CodeSeriesExhausted:
		return KindConfiguration
	default:
		return KindFatal
	}
}

// IsRetryable reports whether the whole unit of work may be re-run
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}
