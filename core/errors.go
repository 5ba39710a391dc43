package core

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds surfaced by the analysis engine.
//
// ErrInvalidInput and ErrInvalidRange are configuration errors: they are
// returned to the immediate caller and never retried. Propagation failures
// are recoverable at single-sample granularity and are reported through
// PropagationError values.
var (
	// ErrInvalidInput marks malformed numeric input to signal estimation
	// (non-finite values or a non-positive range).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange marks a malformed sampling window (start >= end or a
	// non-positive step).
	ErrInvalidRange = errors.New("invalid range")
)

// PropagationError reports that the orbital oracle could not produce a
// position for one satellite at one instant. Batch runs span many satellites
// and long time series, so both coordinates are carried for diagnostics.
type PropagationError struct {
	Satellite string
	At        time.Time
	Err       error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("satellite %s: propagation failed at %s: %v", e.Satellite, e.At.UTC().Format(time.RFC3339), e.Err)
}

func (e *PropagationError) Unwrap() error { return e.Err }
