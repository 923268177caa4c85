package shared

import "errors"

// DomainError represents a domain-level error with a machine-readable code.
// Callers branch on Code, never on message text.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidOperation    = NewDomainError("INVALID_OPERATION", "Operation parameters are structurally invalid")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// NewNotFoundError creates a NOT_FOUND error naming the missing resource kind
// (e.g. "product", "inventory_item", "batch").
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError("NOT_FOUND", resource+" not found")
}

// NewInvalidOperationError creates an INVALID_OPERATION error for structural
// misuse of an operation (missing target, wrong selection mode, etc.).
func NewInvalidOperationError(message string) *DomainError {
	return NewDomainError("INVALID_OPERATION", message)
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == "NOT_FOUND"
	}
	return false
}
