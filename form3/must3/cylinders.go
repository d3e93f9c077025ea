package must3

import (
	"math"

	"github.com/soypat/miniature/internal/d2"
	"github.com/soypat/miniature/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is a 3d box.
type box struct {
	size  r3.Vec
	round float64
	bb    r3.Box
}

// Box return an SDF3 for a 3d box centered at the origin
// (rounded corners with round > 0).
func Box(size r3.Vec, round float64) *box {
	if d3.LTEZero(size) {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if 2*round > d3.Min(size) {
		panic("round > size/2")
	}
	size = r3.Scale(0.5, size)
	s := box{
		size:  r3.Sub(size, d3.Elem(round)),
		round: round,
		bb:    r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
	return &s
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

// Cylinder (exact distance field)

// cylinder is a cylinder.
type cylinder struct {
	height float64
	radius float64
	round  float64
	bb     r3.Box
}

// Cylinder return an SDF3 for a cylinder along the z axis centered
// at the origin (rounded edges with round > 0).
func Cylinder(height, radius, round float64) *cylinder {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if round > radius {
		panic("round > radius")
	}
	if height < 2.0*round || height <= 0 {
		panic("height < 2 * round")
	}
	s := cylinder{}
	s.height = (height / 2) - round
	s.radius = radius - round
	s.round = round
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	s.bb = r3.Box{Min: r3.Scale(-1, d), Max: d}
	return &s
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	d := sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
	return d - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() r3.Box {
	return s.bb
}

// Truncated Cone (exact distance field)

// cone is a truncated cone.
type cone struct {
	r0     float64 // base radius
	r1     float64 // top radius
	height float64 // half height
	u      r2.Vec  // normalized cone slope vector
	n      r2.Vec  // normal to cone slope (points outward)
	l      float64 // length of cone slope
	bb     r3.Box  // bounding box
}

// Cone returns the SDF3 for a truncated cone along the z axis centered at
// the origin. r0 is the radius at z=-height/2 and r1 the radius at z=height/2.
// One of the radii may be zero.
func Cone(height, r0, r1 float64) *cone {
	if height <= 0 {
		panic("height <= 0")
	}
	if r0 < 0 || r1 < 0 || (r0 == 0 && r1 == 0) {
		panic("invalid cone radii")
	}
	s := cone{r0: r0, r1: r1, height: height / 2}
	// cone slope vector and outward normal
	slope := r2.Sub(r2.Vec{X: r1, Y: s.height}, r2.Vec{X: r0, Y: -s.height})
	s.l = r2.Norm(slope)
	s.u = r2.Scale(1/s.l, slope)
	s.n = r2.Vec{X: s.u.Y, Y: -s.u.X}
	r := math.Max(r0, r1)
	s.bb = r3.Box{Min: r3.Vec{X: -r, Y: -r, Z: -s.height}, Max: r3.Vec{X: r, Y: r, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to a truncated cone.
func (s *cone) Evaluate(p r3.Vec) float64 {
	// convert to solid of revolution 2d coordinates
	p2 := r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}
	if p2.Y >= s.height && p2.X <= s.r1 {
		return p2.Y - s.height
	}
	if p2.Y <= -s.height && p2.X <= s.r0 {
		return -p2.Y - s.height
	}
	// distance to slope line
	v := r2.Sub(p2, r2.Vec{X: s.r0, Y: -s.height})
	dSlope := r2.Dot(v, s.n)
	if dSlope < 0 && math.Abs(p2.Y) < s.height {
		// inside
		return -math.Min(-dSlope, s.height-math.Abs(p2.Y))
	}
	t := r2.Dot(v, s.u)
	if t >= 0 && t <= s.l {
		return dSlope
	}
	if t < 0 {
		return r2.Norm(v)
	}
	return r2.Norm(r2.Sub(p2, r2.Vec{X: s.r1, Y: s.height}))
}

// Bounds return the bounding box for the truncated cone.
func (s *cone) Bounds() r3.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	outside := r3.Norm(d3.MaxElem(d, r3.Vec{}))
	if outside > 0 {
		return outside
	}
	return d3.Max(d)
}

func sdfBox2d(p, s r2.Vec) float64 {
	d := r2.Sub(d2.AbsElem(p), s)
	if d.X > 0 || d.Y > 0 {
		return r2.Norm(d2.MaxElem(d, r2.Vec{}))
	}
	return math.Max(d.X, d.Y)
}
