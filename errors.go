package miniature

import "github.com/soypat/miniature/internal/errs"

var (
	// ErrDegenerateInput is returned when input geometry cannot produce a
	// model, such as a track without extent. It is fatal to the build.
	ErrDegenerateInput = errs.ErrDegenerateInput
	// ErrCapabilityInit is returned when the mesh kernel or a font fails to
	// load. Loading may be retried.
	ErrCapabilityInit = errs.ErrCapabilityInit
)
