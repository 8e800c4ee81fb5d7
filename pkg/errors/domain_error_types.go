package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainIdentityError indicates a malformed or non-UUIDv7 node identifier
	DomainIdentityError DomainErrorType = "IDENTITY_ERROR"

	// DomainIntegrityError indicates a violated binder tree invariant
	DomainIntegrityError DomainErrorType = "INTEGRITY_ERROR"

	// DomainReferenceError indicates an operation on a node absent from the tree
	DomainReferenceError DomainErrorType = "REFERENCE_ERROR"

	// DomainValidationError indicates input validation failure
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"
)

// Error codes shared by the sentinels below and the constructors that
// produce fresh, detail-carrying instances of them.
const (
	CodeEmptyNodeID       = "EMPTY_NODE_ID"
	CodeInvalidNodeID     = "INVALID_NODE_ID"
	CodeNodeIDVersion     = "NODE_ID_NOT_V7"
	CodeDuplicateNodeID   = "DUPLICATE_NODE_ID"
	CodeCyclicMove        = "CYCLIC_MOVE"
	CodeInvalidBinderItem = "INVALID_BINDER_ITEM"
	CodeNodeNotFound      = "NODE_NOT_FOUND"
	CodeParentNotFound    = "PARENT_NOT_FOUND"
	CodeFieldValidation   = "FIELD_VALIDATION_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type    DomainErrorType        `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + formatDetails(e.Details) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// formatDetails renders details in a stable key order
func formatDetails(details map[string]interface{}) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, details[k])
	}
	return strings.Join(parts, ", ")
}

// Sentinels for errors.Is. Never attach details to these directly; use the
// constructors below, which return new instances with the same Type and Code.

var (
	// Identity errors
	ErrEmptyNodeID = NewDomainError(
		DomainIdentityError,
		CodeEmptyNodeID,
		"NodeId value cannot be empty",
	)

	ErrInvalidNodeID = NewDomainError(
		DomainIdentityError,
		CodeInvalidNodeID,
		"Invalid UUID format",
	)

	ErrNodeIDVersion = NewDomainError(
		DomainIdentityError,
		CodeNodeIDVersion,
		"NodeId must be a UUIDv7",
	)

	// Integrity errors
	ErrDuplicateNodeID = NewDomainError(
		DomainIntegrityError,
		CodeDuplicateNodeID,
		"Duplicate NodeId found in binder",
	)

	ErrCyclicMove = NewDomainError(
		DomainIntegrityError,
		CodeCyclicMove,
		"Cannot move an item beneath itself or one of its descendants",
	)

	ErrInvalidBinderItem = NewDomainError(
		DomainIntegrityError,
		CodeInvalidBinderItem,
		"Binder item is invalid",
	)

	// Reference errors
	ErrNodeNotFound = NewDomainError(
		DomainReferenceError,
		CodeNodeNotFound,
		"Item not found in binder",
	)

	ErrParentNotFound = NewDomainError(
		DomainReferenceError,
		CodeParentNotFound,
		"Parent not found in binder",
	)
)

// NewEmptyNodeIDError reports an empty identifier
func NewEmptyNodeIDError() *DomainError {
	return NewDomainError(DomainIdentityError, CodeEmptyNodeID, ErrEmptyNodeID.Message)
}

// NewInvalidNodeIDError reports a value that does not parse as a UUID
func NewInvalidNodeIDError(value string, cause error) *DomainError {
	return NewDomainError(DomainIdentityError, CodeInvalidNodeID, ErrInvalidNodeID.Message).
		WithDetail("value", value).
		WithCause(cause)
}

// NewNodeIDVersionError reports a UUID of the wrong version
func NewNodeIDVersionError(value string, version int) *DomainError {
	return NewDomainError(DomainIdentityError, CodeNodeIDVersion, ErrNodeIDVersion.Message).
		WithDetail("value", value).
		WithDetail("version", version)
}

// NewDuplicateNodeIDError reports an id that occurs twice in one forest
func NewDuplicateNodeIDError(nodeID string) *DomainError {
	return NewDomainError(DomainIntegrityError, CodeDuplicateNodeID, ErrDuplicateNodeID.Message).
		WithDetail("node_id", nodeID)
}

// NewCyclicMoveError reports a move beneath the moved item's own subtree
func NewCyclicMoveError(itemID, parentID string) *DomainError {
	return NewDomainError(DomainIntegrityError, CodeCyclicMove, ErrCyclicMove.Message).
		WithDetail("node_id", itemID).
		WithDetail("parent_id", parentID)
}

// NewInvalidBinderItemError reports a structurally unusable item
func NewInvalidBinderItemError(reason string) *DomainError {
	return NewDomainError(DomainIntegrityError, CodeInvalidBinderItem, ErrInvalidBinderItem.Message).
		WithDetail("reason", reason)
}

// NewNodeNotFoundError reports an absent item
func NewNodeNotFoundError(nodeID string) *DomainError {
	return NewDomainError(DomainReferenceError, CodeNodeNotFound, ErrNodeNotFound.Message).
		WithDetail("node_id", nodeID)
}

// NewParentNotFoundError reports an absent parent
func NewParentNotFoundError(parentID string) *DomainError {
	return NewDomainError(DomainReferenceError, CodeParentNotFound, ErrParentNotFound.Message).
		WithDetail("parent_id", parentID)
}

// GetDomainError extracts a DomainError from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainType checks whether err carries a DomainError of the given type
func IsDomainType(err error, errorType DomainErrorType) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Type == errorType
}

// IsIdentity reports identity errors
func IsIdentity(err error) bool {
	return IsDomainType(err, DomainIdentityError)
}

// IsIntegrity reports integrity errors
func IsIntegrity(err error) bool {
	return IsDomainType(err, DomainIntegrityError)
}

// IsReference reports reference errors
func IsReference(err error) bool {
	return IsDomainType(err, DomainReferenceError)
}

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field string, message string) {
	err := NewDomainError(DomainValidationError, CodeFieldValidation, message).
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// ToMap converts validation errors to a map keyed by field
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}
