package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail attaches a structured detail to the error and returns a copy
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
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
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConflict            = NewDomainError("CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Transition not allowed from current status")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDependentChildren   = NewDomainError("DEPENDENT_CHILDREN_EXIST", "Resource has dependent records")
	ErrExternalDependency  = NewDomainError("EXTERNAL_DEPENDENCY_FAILURE", "A downstream dependency failed")
)

// NewValidationError creates a validation error with a field-specific message
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s: %s", field, message),
		Details: map[string]any{"field": field},
	}
}

// NewNotFoundError creates a not-found error for a named resource
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Details: map[string]any{"resource": resource},
	}
}

// NewIllegalTransitionError creates an error describing a rejected status transition
func NewIllegalTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:    "ILLEGAL_TRANSITION",
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

// NewInsufficientStockError reports a stock issue that would drive current stock negative
func NewInsufficientStockError(partNumber string, requested, available int) *DomainError {
	return &DomainError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("insufficient stock for part %s: requested %d, available %d", partNumber, requested, available),
		Details: map[string]any{
			"part_number": partNumber,
			"requested":   requested,
			"available":   available,
		},
	}
}

// NewConflictError reports a uniqueness or concurrency conflict
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewDependentChildrenError reports a delete blocked by dependent records
func NewDependentChildrenError(resource, dependent string) *DomainError {
	return &DomainError{
		Code:    "DEPENDENT_CHILDREN_EXIST",
		Message: fmt.Sprintf("cannot delete %s: dependent %s exist", resource, dependent),
		Details: map[string]any{"resource": resource, "dependent": dependent},
	}
}

// NewExternalDependencyError wraps a downstream failure (storage, gateway)
func NewExternalDependencyError(dependency string, err error) *DomainError {
	return &DomainError{
		Code:    "EXTERNAL_DEPENDENCY_FAILURE",
		Message: fmt.Sprintf("%s unavailable: %v", dependency, err),
		Details: map[string]any{"dependency": dependency},
	}
}
