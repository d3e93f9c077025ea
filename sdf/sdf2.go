package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/miniature/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 2D signed distance function utility functions.

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

type SDF2Union interface {
	SDF2
	SetMin(MinFunc)
}

// MinFunc is a minimum functions for SDF blending.
type MinFunc func(a, b float64) float64

// MaxFunc is a maximum function for SDF blending.
type MaxFunc func(a, b float64) float64

// union2 is a union of multiple SDF2 objects.
type union2 struct {
	sdf []SDF2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects. Empty arguments
// are discarded.
func Union2D(sdf ...SDF2) SDF2Union {
	s := union2{}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union2D")
		}
		if IsEmpty2(x) {
			continue
		}
		s.sdf = append(s.sdf, x)
	}
	if len(s.sdf) == 0 {
		return empty2{}
	}
	// work out the bounding box
	bb := d2.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	if s.min != nil {
		for _, x := range s.sdf[1:] {
			d = s.min(d, x.Evaluate(p))
		}
		return d
	}
	for _, x := range s.sdf[1:] {
		if boxDist2(x.Bounds(), p) >= d {
			continue
		}
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control SDF2 blending.
func (s *union2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

func boxDist2(b r2.Box, p r2.Vec) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	return math.Hypot(dx, dy)
}

// Empty2D returns the shape that contains no points.
func Empty2D() SDF2 { return empty2{} }

// IsEmpty2 reports whether s is the empty shape.
func IsEmpty2(s SDF2) bool {
	_, ok := s.(empty2)
	return ok
}

type empty2 struct {
	center r2.Vec
}

var _ SDF2 = empty2{}

func (e empty2) Evaluate(r2.Vec) float64 {
	return math.MaxFloat64
}

func (e empty2) Bounds() r2.Box {
	return r2.Box{
		Min: e.center,
		Max: e.center,
	}
}

func (e empty2) SetMin(MinFunc) {}

func r2Vec(p r3.Vec) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }
