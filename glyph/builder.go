package glyph

import (
	"math"

	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Orientation selects how contour winding is normalized.
type Orientation uint8

const (
	// OuterCCW makes the largest contour of every glyph counter clockwise,
	// reversing all of the glyph's contours together.
	OuterCCW Orientation = iota
	// Keep leaves the font's winding unchanged.
	Keep
)

// Builder flattens outlines into contours in model space (y up).
type Builder struct {
	// Flatness is the maximum distance in millimetres between a curve
	// and its flattened polyline.
	Flatness float64
	// MaxDepth bounds the curve subdivision depth.
	MaxDepth    int
	Orientation Orientation
	// FillRule is the fill rule the contours are meant to be filled with.
	FillRule form2.FillRule
}

// NewBuilder returns a Builder with 0.01mm flatness, a maximum depth of 10
// and the nonzero fill rule.
func NewBuilder() *Builder {
	return &Builder{Flatness: 0.01, MaxDepth: 10, FillRule: form2.NonZero}
}

// Build outlines text with o and returns its contours. Text with no
// visible glyphs returns nil contours and a nil error.
func (b *Builder) Build(o Outliner, text string, size float64) ([]Contour, error) {
	if text == "" {
		return nil, nil
	}
	cmds, err := o.Outline(text, size)
	if err != nil {
		return nil, err
	}
	return b.Contours(cmds), nil
}

// Contours flattens cmds. Every point has its y negated. Contours with
// fewer than 3 distinct points are dropped.
func (b *Builder) Contours(cmds []Command) []Contour {
	var (
		out    []Contour
		glyphs []int
		cur    []r2.Vec
		pen    r2.Vec
		start  r2.Vec
		glyph  int
	)
	flip := func(v r2.Vec) r2.Vec { return r2.Vec{X: v.X, Y: -v.Y} }
	add := func(v r2.Vec) {
		if len(cur) == 0 || cur[len(cur)-1] != v {
			cur = append(cur, v)
		}
	}
	finish := func() {
		if len(cur) > 1 && cur[len(cur)-1] == cur[0] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 3 {
			out = append(out, append(Contour(cur), cur[0]))
			glyphs = append(glyphs, glyph)
		}
		cur = nil
	}
	for _, c := range cmds {
		switch c.Op {
		case MoveTo:
			finish()
			glyph = c.Glyph
			pen, start = c.Pts[0], c.Pts[0]
			add(flip(pen))
			continue
		case Close:
			finish()
			pen = start
			continue
		}
		if len(cur) == 0 {
			// drawing without a MoveTo starts at the pen.
			glyph, start = c.Glyph, pen
			add(flip(pen))
		}
		switch c.Op {
		case QuadTo:
			// elevate to cubic.
			c1 := r2.Add(pen, r2.Scale(2.0/3, r2.Sub(c.Pts[0], pen)))
			c2 := r2.Add(c.Pts[1], r2.Scale(2.0/3, r2.Sub(c.Pts[0], c.Pts[1])))
			b.flatten(add, flip(pen), flip(c1), flip(c2), flip(c.Pts[1]), 0)
		case CubeTo:
			b.flatten(add, flip(pen), flip(c.Pts[0]), flip(c.Pts[1]), flip(c.Pts[2]), 0)
		}
		pen = c.end()
		add(flip(pen))
	}
	finish()
	if b.Orientation == OuterCCW {
		orient(out, glyphs)
	}
	return out
}

// flatten appends the cubic p0..p3 by recursive midpoint subdivision,
// excluding p0 and p3.
func (b *Builder) flatten(add func(r2.Vec), p0, p1, p2, p3 r2.Vec, depth int) {
	if depth >= b.MaxDepth || flatEnough(p0, p1, p2, p3, b.Flatness) {
		return
	}
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	m := mid(p012, p123)
	b.flatten(add, p0, p01, p012, m, depth+1)
	add(m)
	b.flatten(add, m, p123, p23, p3, depth+1)
}

func mid(a, b r2.Vec) r2.Vec { return r2.Scale(0.5, r2.Add(a, b)) }

// flatEnough reports whether both control points lie within tol of the chord.
func flatEnough(p0, p1, p2, p3 r2.Vec, tol float64) bool {
	return segDist(p1, p0, p3) <= tol && segDist(p2, p0, p3) <= tol
}

func segDist(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}

// orient makes the largest contour of each glyph counter clockwise.
func orient(contours []Contour, glyphs []int) {
	for start := 0; start < len(contours); {
		end := start
		for end < len(contours) && glyphs[end] == glyphs[start] {
			end++
		}
		var largest float64
		for _, c := range contours[start:end] {
			if a := d2.Set(c).SignedArea(); math.Abs(a) > math.Abs(largest) {
				largest = a
			}
		}
		if largest < 0 {
			for _, c := range contours[start:end] {
				d2.Set(c).Reverse()
			}
		}
		start = end
	}
}
