package must2

import (
	"math"

	"github.com/soypat/miniature/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const tolerance = 1e-9

// FillRule decides which regions enclosed by a set of contours are solid.
type FillRule uint8

const (
	// NonZero fills points with a non zero winding number.
	NonZero FillRule = iota
	// EvenOdd fills points enclosed an odd number of times.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	}
	return "FillRule(?)"
}

func (r FillRule) inside(wn int) bool {
	if r == EvenOdd {
		return wn%2 != 0
	}
	return wn != 0
}

// polygon is an SDF2 made from one or more closed sets of line segments.
type polygon struct {
	rule   FillRule
	vertex []r2.Vec  // segment start points
	end    []r2.Vec  // segment end points
	vector []r2.Vec  // unit line vectors
	length []float64 // line lengths
	bb     r2.Box    // bounding box
}

// Polygon returns an SDF2 made from a closed set of line segments.
// The loop is closed automatically if the last vertex does not match the first.
func Polygon(vertex []r2.Vec) *polygon {
	return Polygons([][]r2.Vec{vertex}, NonZero)
}

// Polygons returns an SDF2 made from several closed contours. The inside of
// the shape is decided by the winding number of all contours together under rule.
// Contours with less than 3 distinct vertices are ignored. Polygons panics
// if no usable contours remain.
func Polygons(contours [][]r2.Vec, rule FillRule) *polygon {
	s := polygon{rule: rule}
	first := true
	for _, c := range contours {
		n := len(c)
		if n > 0 && d2.EqualWithin(c[0], c[n-1], tolerance) {
			n--
		}
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := c[i], c[(i+1)%n]
			if !d2.IsFinite(a) {
				panic("non finite polygon vertex")
			}
			l := r2.Sub(b, a)
			length := r2.Norm(l)
			if length == 0 {
				continue
			}
			s.vertex = append(s.vertex, a)
			s.end = append(s.end, b)
			s.length = append(s.length, length)
			s.vector = append(s.vector, r2.Scale(1/length, l))
			if first {
				s.bb = r2.Box{Min: a, Max: a}
				first = false
			}
			s.bb = r2.Box(d2.Box(s.bb).Include(a))
		}
	}
	if len(s.vertex) < 3 {
		panic("number of vertices < 3")
	}
	return &s
}

// Evaluate returns the minimum distance for a 2d polygon.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64 // d^2 to polygon (>0)
	wn := 0               // winding number (inside/outside)

	for i, a := range s.vertex {
		b := s.end[i]
		pa := r2.Sub(p, a)
		v := s.vector[i]

		t := r2.Dot(pa, v)                         // t-parameter of projection onto line
		dn := r2.Dot(pa, r2.Vec{X: v.Y, Y: -v.X}) // normal distance from p to line

		// Distance to line segment
		if t < 0 {
			dd = math.Min(dd, r2.Norm2(pa))
		} else if t > s.length[i] {
			dd = math.Min(dd, r2.Norm2(r2.Sub(p, b)))
		} else {
			dd = math.Min(dd, dn*dn)
		}

		// Is the point in the polygon?
		// See: http://geomalgorithms.com/a03-_inclusion.html
		if a.Y <= p.Y {
			if b.Y > p.Y && dn < 0 { // upward crossing, p left of segment
				wn++
			}
		} else if b.Y <= p.Y && dn > 0 { // downward crossing, p right of segment
			wn--
		}
	}

	d := math.Sqrt(dd)
	if s.rule.inside(wn) {
		return -d
	}
	return d
}

// Bounds returns the bounding box of a 2d polygon.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// Nagon return the vertices of a N sided regular polygon.
func Nagon(n int, radius float64) d2.Set {
	if n < 3 {
		return nil
	}
	v := make(d2.Set, n)
	for i := 0; i < n; i++ {
		v[i] = d2.Rotate(r2.Vec{X: radius}, 2*math.Pi*float64(i)/float64(n))
	}
	return v
}
