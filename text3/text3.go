// Package text3 builds the text plate of a miniature: a flat or slanted
// plate with raised text centred on its top face.
package text3

import (
	"fmt"
	"math"

	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/glyph"
	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the text plate dimensions in millimetres.
type Params struct {
	// Width is the plate size along x.
	Width float64
	// Depth is the plate size along y.
	Depth float64
	// Thickness is the plate height along z.
	Thickness float64
	// TextThickness is the height of the raised text.
	TextThickness float64
	// Slanted plates slope from z=0 at y=0 up to Thickness at y=Depth.
	Slanted bool
}

// Plate is a built text plate. The plate occupies [0,Width]x[0,Depth]x[0,Thickness].
type Plate struct {
	Plate kernel.Solid
	// Text is empty when there were no contours.
	Text    kernel.Solid
	Slanted bool
}

// HasText reports whether the plate carries text.
func (p Plate) HasText() bool { return !p.Text.IsEmpty() }

// Solid returns the union of the plate and its text.
func (p Plate) Solid(k *kernel.Kernel) kernel.Solid {
	return k.Union(p.Plate, p.Text)
}

// Angle returns the slope of a slanted plate in radians.
func (p Params) Angle() float64 {
	return math.Atan(p.Thickness / p.Depth)
}

// Build extrudes contours filled with rule by TextThickness and places them
// centred on the plate.
func Build(k *kernel.Kernel, contours []glyph.Contour, rule form2.FillRule, p Params) (Plate, error) {
	if !(p.Width > 0 && p.Depth > 0 && p.Thickness > 0) {
		return Plate{}, fmt.Errorf("text plate %gx%gx%g: %w", p.Width, p.Depth, p.Thickness, errs.ErrDegenerateInput)
	}
	box, err := k.Box(r3.Vec{X: p.Width, Y: p.Depth, Z: p.Thickness})
	if err != nil {
		return Plate{}, err
	}
	plate := Plate{Plate: box, Slanted: p.Slanted}
	alpha := p.Angle()
	// length of the face the text is centred on.
	face := p.Depth
	if p.Slanted {
		face = math.Hypot(p.Depth, p.Thickness)
		under, err := k.Box(r3.Vec{X: p.Width, Y: face, Z: p.Thickness})
		if err != nil {
			return Plate{}, err
		}
		under = k.Rotate(k.Translate(under, r3.Vec{Z: -p.Thickness}), r3.Vec{X: alpha * 180 / math.Pi})
		plate.Plate = k.Intersection(box, under)
	}

	text, err := extrude(k, contours, rule, p.TextThickness)
	if err != nil || text.IsEmpty() {
		return plate, err
	}
	bb := text.Bounds()
	w, h := bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y
	text = k.Translate(text, r3.Vec{
		X: (p.Width-w)/2 - bb.Min.X,
		Y: (face-h)/2 - bb.Min.Y,
	})
	if p.Slanted {
		text = k.Rotate(text, r3.Vec{X: alpha * 180 / math.Pi})
	} else {
		text = k.Translate(text, r3.Vec{Z: p.Thickness})
	}
	plate.Text = text
	return plate, nil
}

func extrude(k *kernel.Kernel, contours []glyph.Contour, rule form2.FillRule, thickness float64) (kernel.Solid, error) {
	if len(contours) == 0 || !(thickness > 0) {
		return kernel.Solid{}, nil
	}
	cs := make([][]r2.Vec, len(contours))
	for i, c := range contours {
		cs[i] = c
	}
	shape, err := k.Polygon(cs, rule)
	if err != nil {
		return kernel.Solid{}, fmt.Errorf("text contours: %w", err)
	}
	return shape.Extrude(thickness), nil
}
