// Package bracket builds a U shaped mounting bracket with two ribbed ears
// carrying bolt holes.
package bracket

import (
	"fmt"
	"math"

	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the bracket dimensions in millimetres.
type Params struct {
	// Width, Height and Depth are the inner dimensions of the held part.
	Width, Height, Depth float64
	// Thickness is the wall and ear thickness.
	Thickness    float64
	HoleDiameter float64
	EarWidth     float64
	RibThickness float64
	RibCount     int
	// HasBottom closes the bottom wall. Without it the bottom wall is
	// a frame of width Thickness.
	HasBottom bool
}

// Parts are the solids a bracket is made of.
type Parts struct {
	Shell kernel.Solid
	Ears  kernel.Solid
	Ribs  kernel.Solid
}

// Solid returns the union of all parts.
func (p Parts) Solid(k *kernel.Kernel) kernel.Solid {
	return k.Union(p.Shell, p.Ears, p.Ribs)
}

// Spacing returns the start positions of count items of size item spread
// over available with an inset of one item at each end.
func Spacing(available, item float64, count int) []float64 {
	if count <= 1 {
		return []float64{0}
	}
	s := (available - float64(count)*item - 2*item) / float64(count-1)
	pos := make([]float64, count)
	for i := range pos {
		pos[i] = item + float64(i)*(item+s)
	}
	return pos
}

// HoleDiameter clamps the requested diameter to half the ear width or depth,
// less 1mm. A result <= 0 means no hole.
func HoleDiameter(requested, earWidth, depth float64) float64 {
	return math.Min(requested, math.Min(earWidth/2-1, depth/2-1))
}

// Build returns the bracket parts. The shell occupies
// [0, Width+2*Thickness]x[0, Height+2*Thickness]x[0, Depth], open at the top,
// with the ears flush with its top edge.
func Build(k *kernel.Kernel, p Params) (Parts, error) {
	if !(p.Width > 0 && p.Height > 0 && p.Depth > 0 && p.Thickness > 0) {
		return Parts{}, fmt.Errorf("bracket %gx%gx%g thickness %g: %w", p.Width, p.Depth, p.Height, p.Thickness, errs.ErrDegenerateInput)
	}
	t := p.Thickness
	outerW := p.Width + 2*t
	top := p.Height + t

	outer, err := k.Box(r3.Vec{X: outerW, Y: p.Height + 2*t, Z: p.Depth})
	if err != nil {
		return Parts{}, err
	}
	// cutters overshoot the faces they open.
	inner, err := k.Box(r3.Vec{X: p.Width, Y: p.Height + t + 1, Z: p.Depth + 2})
	if err != nil {
		return Parts{}, err
	}
	tools := []kernel.Solid{k.Translate(inner, r3.Vec{X: t, Y: t, Z: -1})}
	if !p.HasBottom {
		window, err := k.Box(r3.Vec{X: p.Width, Y: t + 2, Z: p.Depth - 2*t})
		if err != nil {
			return Parts{}, err
		}
		tools = append(tools, k.Translate(window, r3.Vec{X: t, Y: -1, Z: t}))
	}
	var parts Parts
	parts.Shell = k.Difference(outer, tools...)

	ear, err := k.Box(r3.Vec{X: p.EarWidth, Y: t, Z: p.Depth})
	if err != nil {
		return Parts{}, err
	}
	if d := HoleDiameter(p.HoleDiameter, p.EarWidth, p.Depth); d > 0 && !ear.IsEmpty() {
		hole, err := k.Cylinder(t+2, d/2, d/2, 0)
		if err != nil {
			return Parts{}, err
		}
		// along +y through the ear centre.
		hole = k.Translate(k.Rotate(hole, r3.Vec{X: -90}), r3.Vec{X: p.EarWidth / 2, Y: -1, Z: p.Depth / 2})
		ear = k.Difference(ear, hole)
	}
	parts.Ears = k.Union(
		k.Translate(ear, r3.Vec{X: -p.EarWidth, Y: top}),
		k.Translate(ear, r3.Vec{X: outerW, Y: top}),
	)

	if p.RibCount > 0 && p.EarWidth > 0 {
		rw, rh := p.EarWidth/2, 0.8*top
		tri, err := k.Polygon([][]r2.Vec{{{X: 0, Y: rh}, {X: rw, Y: rh}, {X: rw, Y: 0}}}, form2.NonZero)
		if err != nil {
			return Parts{}, err
		}
		rib := tri.Extrude(p.RibThickness)
		var ribs []kernel.Solid
		for _, z := range Spacing(p.Depth, p.RibThickness, p.RibCount) {
			ribs = append(ribs, k.Translate(rib, r3.Vec{Z: z}))
		}
		left := k.Translate(k.Union(ribs...), r3.Vec{X: -rw, Y: top - rh})
		right := k.Mirror(left, r3.Vec{X: outerW / 2}, r3.Vec{X: 1})
		parts.Ribs = k.Union(left, right)
	}
	return parts, nil
}
