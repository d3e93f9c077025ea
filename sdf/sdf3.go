package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/miniature/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
//
// Evaluate may return a lower bound of the true distance outside of
// the solid but must never overestimate it. The renderer relies on this
// to skip empty regions of space.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Union interface {
	SDF3
	SetMin(MinFunc)
}

type SDF3Diff interface {
	SDF3
	SetMax(MaxFunc)
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The result is
// centered about the z=0 plane.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if height <= 0 || IsEmpty2(sdf) {
		return empty3{}
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	// work out the bounding box
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2Vec(p))
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	inverse d3.Transform
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
// Only distance preserving transforms (rotations, translations and
// reflections) keep the distance field exact.
func Transform3D(sdf SDF3, matrix d3.Transform) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if IsEmpty3(sdf) {
		return empty3{}
	}
	if matrix == (d3.Transform{}) {
		return sdf
	}
	if t, ok := sdf.(*transform3); ok {
		// collapse nested transforms into a single matrix.
		return Transform3D(t.sdf, matrix.Mul(t.inverse.Inv()))
	}
	s := transform3{}
	s.sdf = sdf
	s.inverse = matrix.Inv()
	s.bb = r3.Box(matrix.ApplyBox(d3.Box(sdf.Bounds())))
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Transform(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes about the origin.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if k <= 0 {
		panic("scale factor must be positive")
	}
	if IsEmpty3(sdf) {
		return empty3{}
	}
	bb := sdf.Bounds()
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   r3.Box{Min: r3.Scale(k, bb.Min), Max: r3.Scale(k, bb.Max)},
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects. Empty
// arguments are discarded. If no non-empty arguments remain
// the empty solid is returned. Union3D will panic if an argument
// SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3Union {
	s := union3{}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
		if IsEmpty3(x) {
			continue
		}
		s.sdf = append(s.sdf, x)
	}
	if len(s.sdf) == 0 {
		return empty3{}
	}
	// work out the bounding box
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
// Objects whose bounding box lies farther than the current minimum
// are not evaluated. This only holds for the default minimum function.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	if s.min != nil {
		for _, x := range s.sdf[1:] {
			d = s.min(d, x.Evaluate(p))
		}
		return d
	}
	for _, x := range s.sdf[1:] {
		if d3.Box(x.Bounds()).Dist(p) >= d {
			continue
		}
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union3) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3Diff {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	if IsEmpty3(s0) {
		return empty3{}
	}
	if IsEmpty3(s1) || d3.Box(s0.Bounds()).Intersect(d3.Box(s1.Bounds())).Empty() {
		return &diff3{s0: s0, s1: empty3{}, bb: s0.Bounds()}
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	if s.max == nil {
		return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
	}
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	bb := d3.Box(s0.Bounds()).Intersect(d3.Box(s1.Bounds()))
	if IsEmpty3(s0) || IsEmpty3(s1) || bb.Empty() {
		return empty3{}
	}
	s := intersection3{}
	s.s0 = s0
	s.s1 = s1
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	if s.max == nil {
		return math.Max(s.s0.Evaluate(p), s.s1.Evaluate(p))
	}
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *intersection3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// cut3 makes a planar cut through an SDF3.
type cut3 struct {
	sdf SDF3
	a   r3.Vec // point on plane
	n   r3.Vec // normal to plane
	bb  r3.Box // bounding box
}

// Cut3D cuts an SDF3 along a plane passing through a with normal n.
// The SDF3 on the same side as the normal remains.
func Cut3D(sdf SDF3, a, n r3.Vec) SDF3 {
	if IsEmpty3(sdf) {
		return empty3{}
	}
	s := cut3{}
	s.sdf = sdf
	s.a = a
	s.n = r3.Scale(-1, r3.Unit(n))
	// TODO: clip the bounding box against the plane when it is axis aligned.
	s.bb = sdf.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the cut SDF3.
func (s *cut3) Evaluate(p r3.Vec) float64 {
	return math.Max(r3.Dot(r3.Sub(p, s.a), s.n), s.sdf.Evaluate(p))
}

// Bounds returns the bounding box of the cut SDF3.
func (s *cut3) Bounds() r3.Box {
	return s.bb
}

// Empty3D returns the solid that contains no points.
func Empty3D() SDF3 { return empty3{} }

// IsEmpty3 reports whether s is the empty solid.
func IsEmpty3(s SDF3) bool {
	_, ok := s.(empty3)
	return ok
}

type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{
		Min: e.center,
		Max: e.center,
	}
}

func (e empty3) SetMin(MinFunc) {}
func (e empty3) SetMax(MaxFunc) {}
