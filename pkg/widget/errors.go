package widget

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownParameter is returned when a collection is asked to set an id it
// does not hold.
var ErrUnknownParameter = errors.New("widget: unknown parameter")

// ValidationError explains why a single model is invalid.
type ValidationError struct {
	ID     string
	Title  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("widget: %s: %s", e.label(), e.Reason)
}

func (e *ValidationError) label() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// InvalidError aggregates the validation failures of a collection. Its
// message lists the offending parameter titles in form order.
type InvalidError struct {
	Errors []*ValidationError
}

func (e *InvalidError) Error() string {
	names := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		names[i] = err.label()
	}
	return "widget: invalid parameters: " + strings.Join(names, ", ")
}

// Unwrap exposes the individual failures to errors.As.
func (e *InvalidError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// ByID indexes the failures by parameter id.
func (e *InvalidError) ByID() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		out[err.ID] = err.Reason
	}
	return out
}
