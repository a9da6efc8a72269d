package template

import (
	"errors"
	"fmt"
)

// Lookup outcomes, matched with errors.Is against a LookupError.
var (
	// ErrNotFound means no element carries the requested id
	ErrNotFound = errors.New("element not found")

	// ErrNotTemplate means the element exists but is not a <template>
	ErrNotTemplate = errors.New("element is not a <template>")
)

// MultipleElseError represents an if-chain with more than one else branch.
type MultipleElseError struct {
	// Condition is the "if" attribute of the chain head
	Condition string
}

// Error implements the error interface.
func (e *MultipleElseError) Error() string {
	return fmt.Sprintf("a <template if=%q> cannot be followed by multiple <template else> elements", e.Condition)
}

// SyntaxError represents malformed rule text in a map, for-each or
// attribute-injection attribute.
type SyntaxError struct {
	// Attribute is the attribute holding the rule
	Attribute string

	// Rule is the offending rule text
	Rule string

	// Expected describes the accepted syntax
	Expected string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s attribute must follow syntax %q, got %q", e.Attribute, e.Expected, e.Rule)
}

// NotIterableError represents a for-each collection that is not a sequence.
type NotIterableError struct {
	// Path is the collection path of the for-each rule
	Path string

	// Kind is the kind of the resolved value
	Kind string
}

// Error implements the error interface.
func (e *NotIterableError) Error() string {
	return fmt.Sprintf("%s is not iterable (got %s)", e.Path, e.Kind)
}

// LookupError represents a template id that could not be used.
type LookupError struct {
	// ID is the requested element id
	ID string

	// Reason is ErrNotFound or ErrNotTemplate
	Reason error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("cannot use element with id %s: %v", e.ID, e.Reason)
}

// Unwrap returns the lookup outcome for errors.Is.
func (e *LookupError) Unwrap() error {
	return e.Reason
}

// UnknownHandlerGroupError represents an event-binding naming an unknown group.
type UnknownHandlerGroupError struct {
	// Group is the handler-group name
	Group string
}

// Error implements the error interface.
func (e *UnknownHandlerGroupError) Error() string {
	return fmt.Sprintf("event handler group %s not found", e.Group)
}

// TransportError represents a failed remote template fetch.
type TransportError struct {
	// URL is the requested URL
	URL string

	// StatusCode is the HTTP status code, 0 when no response was received
	StatusCode int

	// Status is the HTTP status text or the transport failure message
	Status string

	// Cause is the underlying transport error, if any
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to fetch %s: %d %s", e.URL, e.StatusCode, e.Status)
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewMultipleElseError creates a MultipleElseError for a chain head condition.
func NewMultipleElseError(condition string) *MultipleElseError {
	return &MultipleElseError{Condition: condition}
}

// NewSyntaxError creates a SyntaxError.
func NewSyntaxError(attribute, rule, expected string) *SyntaxError {
	return &SyntaxError{
		Attribute: attribute,
		Rule:      rule,
		Expected:  expected,
	}
}

// NewNotIterableError creates a NotIterableError.
func NewNotIterableError(path, kind string) *NotIterableError {
	return &NotIterableError{
		Path: path,
		Kind: kind,
	}
}

// NewLookupError creates a LookupError with ErrNotFound or ErrNotTemplate.
func NewLookupError(id string, reason error) *LookupError {
	return &LookupError{
		ID:     id,
		Reason: reason,
	}
}

// NewUnknownHandlerGroupError creates an UnknownHandlerGroupError.
func NewUnknownHandlerGroupError(group string) *UnknownHandlerGroupError {
	return &UnknownHandlerGroupError{Group: group}
}

// NewTransportError creates a TransportError.
func NewTransportError(url string, statusCode int, status string, cause error) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Status:     status,
		Cause:      cause,
	}
}
