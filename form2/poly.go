// Package form2 wraps the panicking must2 constructors, returning the
// panic as an error instead.
package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/miniature/form2/must2"
	"github.com/soypat/miniature/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

func build(fn func() sdf.SDF2) (s sdf.SDF2, err error) {
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

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (sdf.SDF2, error) {
	return build(func() sdf.SDF2 { return must2.Polygon(vertex) })
}

// Polygons returns an SDF2 made from several closed contours filled
// according to rule.
func Polygons(contours [][]r2.Vec, rule FillRule) (sdf.SDF2, error) {
	return build(func() sdf.SDF2 { return must2.Polygons(contours, rule) })
}

// FillRule decides which regions enclosed by a set of contours are solid.
type FillRule = must2.FillRule

const (
	NonZero = must2.NonZero
	EvenOdd = must2.EvenOdd
)
