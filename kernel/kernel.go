// Package kernel is the solid modelling capability used by the model builders.
// Solids are immutable handles over signed distance functions and are only
// combined through Kernel methods. Empty solids are valid values: they are
// skipped by unions and produce empty meshes.
package kernel

import (
	"fmt"
	"math"

	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/form2/must2"
	"github.com/soypat/miniature/form3"
	"github.com/soypat/miniature/internal/d3"
	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/render"
	"github.com/soypat/miniature/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an immutable 3D solid. The zero value is the empty solid.
type Solid struct {
	s sdf.SDF3
}

func solid(s sdf.SDF3) Solid {
	if s == nil || sdf.IsEmpty3(s) {
		return Solid{}
	}
	return Solid{s: s}
}

// IsEmpty reports whether the solid contains no volume.
func (s Solid) IsEmpty() bool { return s.s == nil }

// Bounds returns the bounding box of the solid. The box of an empty
// solid is the zero box.
func (s Solid) Bounds() r3.Box {
	if s.IsEmpty() {
		return r3.Box{}
	}
	return s.s.Bounds()
}

// SDF returns the signed distance function of the solid or nil if it is empty.
func (s Solid) SDF() sdf.SDF3 { return s.s }

// Shape is a closed 2D region in the xy plane.
type Shape struct {
	s sdf.SDF2
}

// IsEmpty reports whether the shape contains no area.
func (s Shape) IsEmpty() bool { return s.s == nil }

// Extrude sweeps the shape along z from z=0 to z=depth.
// Non positive depths produce the empty solid.
func (s Shape) Extrude(depth float64) Solid {
	if s.IsEmpty() || !(depth > 0) {
		return Solid{}
	}
	ext := sdf.Extrude3D(s.s, depth)
	return solid(sdf.Transform3D(ext, d3.Transform{}.Translate(r3.Vec{Z: depth / 2})))
}

// Kernel creates and combines solids. Obtain one with a Loader.
type Kernel struct {
	// Cells is the default mesh resolution used by Mesh when
	// called with cells <= 0.
	Cells int
}

// Box returns the box spanning from the origin to dims.
// Boxes with a non positive dimension are empty.
func (k *Kernel) Box(dims r3.Vec) (Solid, error) {
	if !d3.IsFinite(dims) {
		return Solid{}, fmt.Errorf("box %v: %w", dims, errs.ErrDegenerateInput)
	}
	if d3.LTEZero(dims) {
		return Solid{}, nil
	}
	b, err := form3.Box(dims, 0)
	if err != nil {
		return Solid{}, err
	}
	return solid(sdf.Transform3D(b, d3.Transform{}.Translate(r3.Scale(0.5, dims)))), nil
}

// Cylinder returns a cylinder or truncated cone along z from z=0 to z=h with
// radius r0 at the bottom and r1 at the top. When r0 == r1 and segments >= 3
// the cylinder is a regular prism with its vertices on the circle. segments
// is ignored for cones.
func (k *Kernel) Cylinder(h, r0, r1 float64, segments int) (Solid, error) {
	for _, v := range []float64{h, r0, r1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Solid{}, fmt.Errorf("cylinder h=%g r0=%g r1=%g: %w", h, r0, r1, errs.ErrDegenerateInput)
		}
	}
	if h <= 0 || r0 < 0 || r1 < 0 || (r0 <= 0 && r1 <= 0) {
		return Solid{}, nil
	}
	var s sdf.SDF3
	var err error
	switch {
	case r0 == r1 && segments >= 3:
		var poly sdf.SDF2
		poly, err = form2.Polygon(must2.Nagon(segments, r0))
		if err == nil {
			s = sdf.Extrude3D(poly, h)
		}
	case r0 == r1:
		s, err = form3.Cylinder(h, r0, 0)
	default:
		s, err = form3.Cone(h, r0, r1)
	}
	if err != nil {
		return Solid{}, err
	}
	return solid(sdf.Transform3D(s, d3.Transform{}.Translate(r3.Vec{Z: h / 2}))), nil
}

// Polygon returns the region enclosed by the contours under rule. Contours
// with less than 3 vertices are ignored; if none remain the shape is empty.
func (k *Kernel) Polygon(contours [][]r2.Vec, rule form2.FillRule) (Shape, error) {
	usable := 0
	for _, c := range contours {
		for _, p := range c {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return Shape{}, fmt.Errorf("polygon vertex %v: %w", p, errs.ErrDegenerateInput)
			}
		}
		if len(c) >= 3 {
			usable++
		}
	}
	if usable == 0 {
		return Shape{}, nil
	}
	s, err := form2.Polygons(contours, rule)
	if err != nil {
		// all contours were degenerate after removing repeated vertices.
		return Shape{}, nil
	}
	return Shape{s: s}, nil
}

// UnionShapes returns the union of the shapes.
func (k *Kernel) UnionShapes(shapes ...Shape) Shape {
	var s []sdf.SDF2
	for _, sh := range shapes {
		if !sh.IsEmpty() {
			s = append(s, sh.s)
		}
	}
	switch len(s) {
	case 0:
		return Shape{}
	case 1:
		return Shape{s: s[0]}
	}
	return Shape{s: sdf.Union2D(s...)}
}

// Union returns the union of the solids. Empty solids are ignored.
func (k *Kernel) Union(solids ...Solid) Solid {
	var s []sdf.SDF3
	for _, sol := range solids {
		if !sol.IsEmpty() {
			s = append(s, sol.s)
		}
	}
	switch len(s) {
	case 0:
		return Solid{}
	case 1:
		return Solid{s: s[0]}
	}
	return solid(sdf.Union3D(s...))
}

// Difference returns a with all of the tools removed.
func (k *Kernel) Difference(a Solid, tools ...Solid) Solid {
	if a.IsEmpty() {
		return Solid{}
	}
	tool := k.Union(tools...)
	if tool.IsEmpty() {
		return a
	}
	return solid(sdf.Difference3D(a.s, tool.s))
}

// Intersection returns the volume common to a and b.
func (k *Kernel) Intersection(a, b Solid) Solid {
	if a.IsEmpty() || b.IsEmpty() {
		return Solid{}
	}
	return solid(sdf.Intersect3D(a.s, b.s))
}

// Cut keeps the part of s on the side of the plane through point
// that normal points to.
func (k *Kernel) Cut(s Solid, point, normal r3.Vec) Solid {
	if s.IsEmpty() || r3.Norm(normal) == 0 {
		return s
	}
	return solid(sdf.Cut3D(s.s, point, normal))
}

// Translate moves the solid by v.
func (k *Kernel) Translate(s Solid, v r3.Vec) Solid {
	return k.Transform(s, d3.Transform{}.Translate(v))
}

// Rotate rotates the solid about the origin by the Euler angles in degrees,
// first about x, then y, then z.
func (k *Kernel) Rotate(s Solid, degrees r3.Vec) Solid {
	rx := d3.RotationX(sdf.DtoR(degrees.X))
	ry := d3.RotationY(sdf.DtoR(degrees.Y))
	rz := d3.RotationZ(sdf.DtoR(degrees.Z))
	return k.Transform(s, rz.Mul(ry).Mul(rx))
}

// Mirror reflects the solid across the plane through origin with the given normal.
func (k *Kernel) Mirror(s Solid, origin, normal r3.Vec) Solid {
	if r3.Norm(normal) == 0 {
		return s
	}
	return k.Transform(s, d3.Mirror(origin, normal))
}

// Scale scales the solid uniformly about the origin. Non positive
// factors produce the empty solid.
func (k *Kernel) Scale(s Solid, factor float64) Solid {
	if s.IsEmpty() || !(factor > 0) {
		return Solid{}
	}
	return solid(sdf.ScaleUniform3D(s.s, factor))
}

// Transform applies a rigid transform to the solid. Transforms that
// scale distort the distance field and should use Scale instead.
func (k *Kernel) Transform(s Solid, t d3.Transform) Solid {
	if s.IsEmpty() {
		return Solid{}
	}
	return solid(sdf.Transform3D(s.s, t))
}

// Mesh triangulates the solid with cells samples along its longest axis.
// The empty solid yields an empty mesh. The same solid and cells always
// produce the same mesh.
func (k *Kernel) Mesh(s Solid, cells int) (*render.Mesh, error) {
	if cells <= 0 {
		cells = k.Cells
	}
	if cells < 2 {
		return nil, fmt.Errorf("mesh cells %d: %w", cells, errs.ErrDegenerateInput)
	}
	if s.IsEmpty() {
		return &render.Mesh{}, nil
	}
	tris, err := render.RenderAll(render.NewOctreeRenderer(s.s, cells))
	if err != nil {
		return nil, err
	}
	return render.NewMesh(tris), nil
}
