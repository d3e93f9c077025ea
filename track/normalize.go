package track

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/soypat/miniature/internal/d2"
	"github.com/soypat/miniature/internal/errs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Normalized is a track projected onto the plate.
type Normalized struct {
	// Points are scaled millimetre positions with their bounding box
	// minimum at the origin.
	Points []r2.Vec
	// Offset centres Points inside the margin inset footprint.
	Offset r2.Vec
	// Scale is millimetres per rotated degree.
	Scale float64
}

// Normalize treats (lon, lat) as planar coordinates, rotates them by
// rotation degrees about the origin and scales them so the longest side
// of the rotated bounding box spans width-2*margin.
func Normalize(pts []orb.Point, rotation, width, margin float64) (Normalized, error) {
	maxSize := width - 2*margin
	if !(maxSize > 0) || math.IsInf(maxSize, 0) {
		return Normalized{}, fmt.Errorf("normalize: footprint %g-2*%g: %w", width, margin, errs.ErrDegenerateInput)
	}
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		return Normalized{}, fmt.Errorf("normalize: rotation %g: %w", rotation, errs.ErrDegenerateInput)
	}
	theta := rotation * math.Pi / 180
	rot := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		v := r2.Vec{X: p.Lon(), Y: p.Lat()}
		if !d2.IsFinite(v) {
			return Normalized{}, fmt.Errorf("normalize: point %d %v: %w", i, p, errs.ErrDegenerateInput)
		}
		v = d2.Rotate(v, theta)
		rot[i] = orb.Point{v.X, v.Y}
	}
	if len(rot) == 0 {
		return Normalized{}, fmt.Errorf("normalize: no points: %w", errs.ErrDegenerateInput)
	}
	bb := rot.Bound()
	w, h := bb.Right()-bb.Left(), bb.Top()-bb.Bottom()
	if w == 0 || h == 0 {
		return Normalized{}, fmt.Errorf("normalize: rotated bounds %gx%g: %w", w, h, errs.ErrDegenerateInput)
	}
	scale := maxSize / math.Max(w, h)
	n := Normalized{
		Points: make([]r2.Vec, len(rot)),
		Scale:  scale,
		Offset: r2.Vec{
			X: margin + (maxSize-w*scale)/2,
			Y: margin + (maxSize-h*scale)/2,
		},
	}
	for i, p := range rot {
		n.Points[i] = r2.Vec{X: (p.X() - bb.Left()) * scale, Y: (p.Y() - bb.Bottom()) * scale}
	}
	return n, nil
}
