// Package ribbon turns a plate-local polyline with per vertex heights into
// a mitered wall of constant width standing on z=0.
package ribbon

import (
	"fmt"
	"math"

	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxMiter is the largest miter half angle in degrees. Sharper turns are
// filled by the joint cylinder.
const MaxMiter = 80.0

// minSegment is the length under which a segment is considered degenerate.
const minSegment = 1e-9

// Params configures a ribbon.
type Params struct {
	// EdgeWidth is the ribbon width in millimetres.
	EdgeWidth float64
	// TruncatePct is the percentage of the polyline used, starting at
	// the first point.
	TruncatePct float64
}

// DefaultParams returns a 1mm wide ribbon using the whole polyline.
func DefaultParams() Params {
	return Params{EdgeWidth: 1, TruncatePct: 100}
}

// Bisector returns half of the signed turn from direction a1 to a2, both in
// degrees. The turn is normalized into (-180, 180] so the result lies in
// (-90, 90].
func Bisector(a2, a1 float64) float64 {
	d := math.Mod(a2-a1, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d / 2
}

// Used returns the number of leading points of an n point polyline that
// TruncatePct keeps.
func (p Params) Used(n int) int {
	used := int(math.Round(p.TruncatePct / 100 * float64(n)))
	if used > n {
		used = n
	}
	if used < 0 {
		used = 0
	}
	return used
}

type vertex struct {
	p r2.Vec
	h float64
}

// Extrude builds the ribbon through pts with heights h. Fewer than two used
// points produce the empty solid.
func Extrude(k *kernel.Kernel, pts []r2.Vec, h []float64, p Params) (kernel.Solid, error) {
	if len(pts) != len(h) {
		return kernel.Solid{}, fmt.Errorf("ribbon: %d points and %d heights: %w", len(pts), len(h), errs.ErrDegenerateInput)
	}
	if !(p.EdgeWidth > 0) {
		return kernel.Solid{}, fmt.Errorf("ribbon: edge width %g: %w", p.EdgeWidth, errs.ErrDegenerateInput)
	}
	used := p.Used(len(pts))
	if used < 2 {
		return kernel.Solid{}, nil
	}
	pts, h = pts[:used], h[:used]
	w := p.EdgeWidth
	r := w / 2

	// collapse repeated points, joints are still added for every point.
	verts := []vertex{{p: pts[0], h: h[0]}}
	for i := 1; i < used; i++ {
		if r2.Norm(r2.Sub(pts[i], verts[len(verts)-1].p)) > minSegment {
			verts = append(verts, vertex{p: pts[i], h: h[i]})
		}
	}
	nseg := len(verts) - 1
	angles := make([]float64, nseg)
	for i := range angles {
		d := r2.Sub(verts[i+1].p, verts[i].p)
		angles[i] = math.Atan2(d.Y, d.X) * 180 / math.Pi
	}

	var parts []kernel.Solid
	for i := 0; i < nseg; i++ {
		var start, end float64
		if i > 0 {
			start = clampMiter(Bisector(angles[i], angles[i-1]))
		}
		if i < nseg-1 {
			end = clampMiter(Bisector(angles[i+1], angles[i]))
		}
		seg, err := segment(k, verts[i], verts[i+1], w, start, end, i > 0, i < nseg-1)
		if err != nil {
			return kernel.Solid{}, fmt.Errorf("ribbon segment %d: %w", i, err)
		}
		parts = append(parts, k.Translate(k.Rotate(seg, r3.Vec{Z: angles[i]}), r3.Vec{X: verts[i].p.X, Y: verts[i].p.Y}))
	}

	for i := 0; i < used; i++ {
		c, err := k.Cylinder(h[i], r, r, 0)
		if err != nil {
			return kernel.Solid{}, fmt.Errorf("ribbon joint %d: %w", i, err)
		}
		at := r3.Vec{X: pts[i].X, Y: pts[i].Y}
		c = k.Translate(c, at)
		if nseg > 0 {
			// end caps keep the half disk outside their segment.
			switch {
			case i == 0:
				c = k.Cut(c, at, direction(angles[0]+180))
			case i == used-1:
				c = k.Cut(c, at, direction(angles[nseg-1]))
			}
		}
		parts = append(parts, c)
	}
	return k.Union(parts...), nil
}

// direction returns the unit vector at deg degrees in the xy plane.
func direction(deg float64) r3.Vec {
	s, c := math.Sincos(deg * math.Pi / 180)
	return r3.Vec{X: c, Y: s}
}

func clampMiter(a float64) float64 {
	return math.Max(-MaxMiter, math.Min(MaxMiter, a))
}

// segment returns the trapezoid wall from a to b in its local frame: along
// +x from the origin, centred on y=0. start and end are the miter half
// angles in degrees at each end.
func segment(k *kernel.Kernel, a, b vertex, w, start, end float64, cutStart, cutEnd bool) (kernel.Solid, error) {
	l := r2.Norm(r2.Sub(b.p, a.p))
	e0 := w / 2 * math.Abs(math.Tan(start*math.Pi/180))
	e1 := w / 2 * math.Abs(math.Tan(end*math.Pi/180))
	// profile in the (x, z) plane.
	var poly []r2.Vec
	poly = append(poly, r2.Vec{X: -e0})
	poly = append(poly, r2.Vec{X: l + e1})
	if e1 > 0 {
		poly = append(poly, r2.Vec{X: l + e1, Y: b.h})
	}
	poly = append(poly, r2.Vec{X: l, Y: b.h}, r2.Vec{X: 0, Y: a.h})
	if e0 > 0 {
		poly = append(poly, r2.Vec{X: -e0, Y: a.h})
	}
	shape, err := k.Polygon([][]r2.Vec{poly}, form2.NonZero)
	if err != nil {
		return kernel.Solid{}, err
	}
	seg := k.Translate(shape.Extrude(w), r3.Vec{Z: -w / 2})
	seg = k.Rotate(seg, r3.Vec{X: 90})
	if cutStart {
		seg = k.Cut(seg, r3.Vec{}, direction(-start))
	}
	if cutEnd {
		seg = k.Cut(seg, r3.Vec{X: l}, r3.Scale(-1, direction(end)))
	}
	return seg, nil
}
