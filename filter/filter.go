// Package filter defines the capability contract every dataset transform
// implements, the process-wide registry mapping filter type identifiers to
// constructors, and the built-in filter set (slice, clip, contour,
// elevation). Each filter file is self-contained: it carries its typed
// parameter struct next to the implementation.
package filter

import (
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// Filter is the minimal transform capability the pipeline depends on.
// Implementations must not mutate the input dataset and must not share
// mutable state between instances.
type Filter interface {
	// FilterType returns the stable identifier used as the registry key.
	FilterType() string

	// DisplayName returns the human-readable label ("Slice", "Contour").
	DisplayName() string

	// DefaultParams returns a fresh default parameter set. Each call yields
	// an independent instance.
	DefaultParams() Params

	// Apply transforms the input dataset according to the parameters and
	// returns the renderable plus the derived dataset. Invalid parameters
	// or absent input fail with *ApplicationError.
	Apply(input *dataset.Dataset, p Params) (*render.Renderable, *dataset.Dataset, error)
}

// Constructor creates a fresh filter instance.
type Constructor func() Filter

// Descriptor is the registration-time identity of a filter type: identifier,
// label and default parameters. Immutable after registration.
type Descriptor struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Defaults    Params `json:"defaults"`
}

// DuplicateFilterError signals a second registration of the same filter
// type. Registration happens once at startup, so this is a startup failure.
type DuplicateFilterError struct {
	Type string
}

// Error implements the error interface.
func (e *DuplicateFilterError) Error() string {
	return fmt.Sprintf("filter type %q is already registered", e.Type)
}

// UnknownFilterError signals a lookup of an unregistered filter type. This
// is the recoverable error callers surface as "filter not found".
type UnknownFilterError struct {
	Type string
}

// Error implements the error interface.
func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter type %q", e.Type)
}

// ApplicationError signals that applying a filter failed: parameters outside
// the filter's domain or a malformed/absent input dataset. The pipeline
// guarantees no state change when it surfaces this error.
type ApplicationError struct {
	Filter string // Filter type identifier
	Err    error  // Underlying cause
}

// Error implements the error interface.
func (e *ApplicationError) Error() string {
	return fmt.Sprintf("applying %s: %v", e.Filter, e.Err)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *ApplicationError) Unwrap() error { return e.Err }

func applicationError(filterType string, err error) *ApplicationError {
	return &ApplicationError{Filter: filterType, Err: err}
}
