package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDegenerateNormal is returned when a plane normal has zero length. The
// check happens before any geometry work so a bad request can never reach
// the cut machinery.
var ErrDegenerateNormal = errors.New("plane normal must be non-zero")

// ErrEmptyDataset is returned when an operation requires input geometry and
// the dataset is nil or has no points.
var ErrEmptyDataset = errors.New("input dataset is empty")

// MissingScalarFieldError signals that a contour was requested on a dataset
// without a usable scalar field. Available lists the point arrays that do
// exist so callers can surface a hint.
type MissingScalarFieldError struct {
	Requested string   // Array asked for, "" when the active array was meant
	Available []string // Point arrays present on the dataset
}

// Error implements the error interface.
func (e *MissingScalarFieldError) Error() string {
	var b strings.Builder
	if e.Requested != "" {
		fmt.Fprintf(&b, "scalar field %q not found", e.Requested)
	} else {
		b.WriteString("dataset has no active scalar field")
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
	} else {
		b.WriteString(" (no point arrays present)")
	}
	return b.String()
}
