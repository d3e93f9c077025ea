package render

import (
	"github.com/soypat/miniature/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces the triangles of a surface in successive calls.
// ReadTriangles returns io.EOF once all triangles have been read.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle. Vertices are counter-clockwise
// when viewed from outside the solid.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle following the right hand rule.
// Degenerate triangles return the zero vector.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two or more vertices of the triangle
// are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Bounds returns the bounding box of the triangle.
func (t Triangle3) Bounds() r3.Box {
	return r3.Box{
		Min: d3.MinElem(t.V[0], d3.MinElem(t.V[1], t.V[2])),
		Max: d3.MaxElem(t.V[0], d3.MaxElem(t.V[1], t.V[2])),
	}
}
