// Package errors provides custom error types for the stackmap system.
// Every failure surfaced by the reconciliation engine maps onto one of the
// sentinel kinds below, so callers can route on errors.Is without parsing
// message text.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the stackmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a name collision on create or a
	// dependent-resource block on delete
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemoteUnavailable indicates the remote catalog could not be
	// reached or returned malformed data
	ErrRemoteUnavailable = errors.New("remote catalog unavailable")

	// ErrRemoteRejected indicates the remote catalog was reached but
	// reported a business-rule failure
	ErrRemoteRejected = errors.New("remote catalog rejected operation")

	// ErrTimeout indicates that a remote call timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// Dependent identifies a resource that references another resource via a
// relationship edge, blocking the referenced resource's deletion.
type Dependent struct {
	Kind string
	ID   string
	Name string
}

// String returns a compact "kind id (name)" rendering.
func (d Dependent) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s %s (%s)", d.Kind, d.ID, d.Name)
	}
	return fmt.Sprintf("%s %s", d.Kind, d.ID)
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Kind string
	Ref  string // name or remote ID that failed to resolve
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, ref string) *NotFoundError {
	return &NotFoundError{Kind: kind, Ref: ref}
}

// FieldViolation records a single field-level validation failure.
type FieldViolation struct {
	Field   string
	Value   any
	Message string
}

// String renders the violation as "field: message".
func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationError represents one or more field-level validation failures.
// Violations are collected exhaustively across independent field checks
// rather than failing fast on the first.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add records a violation on the collector.
func (e *ValidationError) Add(field string, value any, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Value: value, Message: message})
}

// ErrOrNil returns the error when at least one violation was collected,
// nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// NewValidationError creates a ValidationError with a single violation
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Value: value, Message: message}}}
}

// ConflictError represents a name collision on create or a
// dependent-resource block on delete.
type ConflictError struct {
	Kind       string
	Name       string
	ExistingID string      // set on create collisions
	Dependents []Dependent // set on blocked deletes
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if len(e.Dependents) > 0 {
		deps := make([]string, len(e.Dependents))
		for i, d := range e.Dependents {
			deps[i] = d.String()
		}
		return fmt.Sprintf("%s %q is referenced by %d dependent(s): %s",
			e.Kind, e.Name, len(e.Dependents), strings.Join(deps, ", "))
	}
	if e.ExistingID != "" {
		return fmt.Sprintf("%s named %q already exists with ID %s", e.Kind, e.Name, e.ExistingID)
	}
	return fmt.Sprintf("%s %q conflicts with existing state", e.Kind, e.Name)
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError creates a ConflictError for a create-time name collision
func NewConflictError(kind, name, existingID string) *ConflictError {
	return &ConflictError{Kind: kind, Name: name, ExistingID: existingID}
}

// NewDependentsError creates a ConflictError for a delete blocked by dependents
func NewDependentsError(kind, name string, dependents []Dependent) *ConflictError {
	return &ConflictError{Kind: kind, Name: name, Dependents: dependents}
}

// RemoteError represents a failure reported by or while reaching the
// remote graph catalog. Unavailable distinguishes "could not be reached
// or returned malformed data" from "reached but rejected the operation".
type RemoteError struct {
	Operation   string
	Code        string // structured error code from the remote, if any
	Message     string
	Unavailable bool
	Err         error
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("remote catalog unreachable during %s: %s", e.Operation, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("remote catalog rejected %s [%s]: %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("remote catalog rejected %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RemoteError) Is(target error) bool {
	if e.Unavailable {
		return target == ErrRemoteUnavailable
	}
	return target == ErrRemoteRejected
}

// NewRemoteUnavailableError creates a RemoteError for an unreachable remote
func NewRemoteUnavailableError(operation, message string, err error) *RemoteError {
	return &RemoteError{Operation: operation, Message: message, Unavailable: true, Err: err}
}

// NewRemoteRejectedError creates a RemoteError for a rejected operation
func NewRemoteRejectedError(operation, code, message string) *RemoteError {
	return &RemoteError{Operation: operation, Code: code, Message: message}
}

// TimeoutError represents a remote call exceeding its deadline
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration > 0 {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRemoteUnavailable checks if an error indicates the remote catalog
// could not be reached
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// IsRemoteRejected checks if an error indicates the remote catalog
// rejected the operation
func IsRemoteRejected(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsConflict extracts a ConflictError from an error chain, if present.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsValidation extracts a ValidationError from an error chain, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsRemote extracts a RemoteError from an error chain, if present.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
