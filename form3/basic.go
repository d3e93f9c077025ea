// Package form3 wraps the panicking must3 constructors, returning the
// panic as an error instead.
package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/miniature/form3/must3"
	"github.com/soypat/miniature/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

func build(fn func() sdf.SDF3) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return fn(), nil
}

// Box return an SDF3 for a 3d box centered at the origin (rounded corners with round > 0).
func Box(size r3.Vec, round float64) (sdf.SDF3, error) {
	return build(func() sdf.SDF3 { return must3.Box(size, round) })
}

// Cylinder return an SDF3 for a cylinder along z centered at the origin
// (rounded edges with round > 0).
func Cylinder(height, radius, round float64) (sdf.SDF3, error) {
	return build(func() sdf.SDF3 { return must3.Cylinder(height, radius, round) })
}

// Cone returns the SDF3 for a truncated cone along z centered at the origin.
func Cone(height, r0, r1 float64) (sdf.SDF3, error) {
	return build(func() sdf.SDF3 { return must3.Cone(height, r0, r1) })
}
