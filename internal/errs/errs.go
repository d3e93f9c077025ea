// Package errs holds the sentinel errors shared by the geometry packages.
package errs

import "errors"

var (
	// ErrDegenerateInput is returned when input data cannot produce geometry,
	// such as a track with zero extent or non finite coordinates.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrCapabilityInit is returned when the mesh kernel or a font could not be
	// loaded. The operation may be retried.
	ErrCapabilityInit = errors.New("capability initialization failed")
)
