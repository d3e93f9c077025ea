package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// R2 vector helpers not provided by gonum.

func Elem(sides float64) r2.Vec {
	return r2.Vec{X: sides, Y: sides}
}

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func AbsElem(a r2.Vec) r2.Vec {
	return r2.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y)}
}

// Rotate rotates a counter-clockwise about the origin by theta radians.
func Rotate(a r2.Vec, theta float64) r2.Vec {
	sin, cos := math.Sincos(theta)
	return r2.Vec{X: a.X*cos - a.Y*sin, Y: a.X*sin + a.Y*cos}
}

// IsFinite returns false if any component is NaN or infinite.
func IsFinite(a r2.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) && !math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// SignedArea returns the shoelace area of the closed polygon described by the set.
// Counter-clockwise polygons have positive area. The set may or may not repeat
// its first vertex at the end.
func (a Set) SignedArea() float64 {
	if len(a) < 3 {
		return 0
	}
	var sum float64
	prev := a[len(a)-1]
	for _, v := range a {
		sum += prev.X*v.Y - v.X*prev.Y
		prev = v
	}
	return sum / 2
}

// Reverse reverses the order of the vertices in place.
func (a Set) Reverse() {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
