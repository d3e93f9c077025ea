package glyph

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// TrueType outlines text with github.com/golang/freetype/truetype.
// Only TrueType (glyf) fonts are supported.
type TrueType struct {
	f     *truetype.Font
	scale fixed.Int26_6
}

// ParseTrueType parses a TTF font.
func ParseTrueType(b []byte) (*TrueType, error) {
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, err
	}
	return &TrueType{f: f, scale: fixed.I(int(f.FUnitsPerEm()))}, nil
}

// Outline implements Outliner. It is safe for concurrent use.
func (t *TrueType) Outline(text string, size float64) ([]Command, error) {
	var gb truetype.GlyphBuf
	k := size / float64(t.scale)
	var cmds []Command
	var x float64
	var prev truetype.Index
	for gi, r := range []rune(text) {
		idx := t.f.Index(r)
		if gi > 0 {
			x += float64(t.f.Kern(t.scale, prev, idx))
		}
		if err := gb.Load(t.f, t.scale, idx, font.HintingNone); err != nil {
			return nil, err
		}
		// glyf outlines are y up.
		pt := func(p truetype.Point) r2.Vec {
			return r2.Vec{X: (x + float64(p.X)) * k, Y: -float64(p.Y) * k}
		}
		start := 0
		for _, end := range gb.Ends {
			cmds = appendContour(cmds, gb.Points[start:end], gi, pt)
			start = end
		}
		x += float64(t.f.HMetric(t.scale, idx).AdvanceWidth)
		prev = idx
	}
	return cmds, nil
}

func onCurve(p truetype.Point) bool { return p.Flags&0x01 != 0 }

// appendContour converts a quadratic glyf contour with implicit on curve
// midpoints into commands.
func appendContour(cmds []Command, ps []truetype.Point, gi int, pt func(truetype.Point) r2.Vec) []Command {
	if len(ps) == 0 {
		return cmds
	}
	mid := func(a, b r2.Vec) r2.Vec { return r2.Scale(0.5, r2.Add(a, b)) }
	var start r2.Vec
	first := 0
	switch {
	case onCurve(ps[0]):
		start = pt(ps[0])
		first = 1
	case onCurve(ps[len(ps)-1]):
		start = pt(ps[len(ps)-1])
	default:
		start = mid(pt(ps[len(ps)-1]), pt(ps[0]))
	}
	cmds = append(cmds, Command{Op: MoveTo, Pts: [3]r2.Vec{start}, Glyph: gi})
	var ctrl r2.Vec
	pending := false
	for _, p := range ps[first:] {
		v := pt(p)
		switch {
		case onCurve(p) && pending:
			cmds = append(cmds, Command{Op: QuadTo, Pts: [3]r2.Vec{ctrl, v}, Glyph: gi})
			pending = false
		case onCurve(p):
			cmds = append(cmds, Command{Op: LineTo, Pts: [3]r2.Vec{v}, Glyph: gi})
		case pending:
			cmds = append(cmds, Command{Op: QuadTo, Pts: [3]r2.Vec{ctrl, mid(ctrl, v)}, Glyph: gi})
			ctrl = v
		default:
			ctrl, pending = v, true
		}
	}
	if pending {
		cmds = append(cmds, Command{Op: QuadTo, Pts: [3]r2.Vec{ctrl, start}, Glyph: gi})
	}
	return append(cmds, Command{Op: Close, Glyph: gi})
}
