package eval

import "fmt"

// ResolutionError represents a variable path that could not be resolved.
// Prefixing the path with '$' turns this failure into an undefined result.
type ResolutionError struct {
	// Segment is the first path segment that was missing
	Segment string

	// Path is the path being resolved, without modifier prefixes
	Path string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s (in %s) could not be found", e.Segment, e.Path)
}

// UnknownTestError represents an is/isnot test naming an unregistered predicate.
type UnknownTestError struct {
	// Name is the predicate name used in the condition
	Name string
}

// Error implements the error interface.
func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("test %s not found", e.Name)
}

// UnknownOperatorError represents a comparison with an unsupported operator.
type UnknownOperatorError struct {
	// Operator is the operator token found in the condition
	Operator string
}

// Error implements the error interface.
func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown comparison operator %s", e.Operator)
}

// TypeKindError represents a value of the wrong kind for an operation,
// such as a predicate handler that is not callable or a containment test
// against a number.
type TypeKindError struct {
	// Subject describes what was being checked
	Subject string

	// Kind is the kind of the offending value
	Kind string
}

// Error implements the error interface.
func (e *TypeKindError) Error() string {
	return fmt.Sprintf("%s: unsupported kind %s", e.Subject, e.Kind)
}

// NewResolutionError creates a ResolutionError for a missing segment.
func NewResolutionError(segment, path string) *ResolutionError {
	return &ResolutionError{
		Segment: segment,
		Path:    path,
	}
}

// NewUnknownTestError creates an UnknownTestError for a predicate name.
func NewUnknownTestError(name string) *UnknownTestError {
	return &UnknownTestError{Name: name}
}

// NewUnknownOperatorError creates an UnknownOperatorError for an operator token.
func NewUnknownOperatorError(operator string) *UnknownOperatorError {
	return &UnknownOperatorError{Operator: operator}
}

// NewTypeKindError creates a TypeKindError.
func NewTypeKindError(subject, kind string) *TypeKindError {
	return &TypeKindError{
		Subject: subject,
		Kind:    kind,
	}
}
