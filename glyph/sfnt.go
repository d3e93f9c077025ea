package glyph

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// SFNT outlines text with an OpenType/TrueType font parsed by
// golang.org/x/image/font/sfnt. Kerning pairs are applied when the font
// has a kern table.
type SFNT struct {
	f    *sfnt.Font
	upem fixed.Int26_6
}

// ParseSFNT parses a TTF or OTF font.
func ParseSFNT(b []byte) (*SFNT, error) {
	f, err := sfnt.Parse(b)
	if err != nil {
		return nil, err
	}
	return &SFNT{f: f, upem: fixed.I(int(f.UnitsPerEm()))}, nil
}

// Outline implements Outliner. It is safe for concurrent use.
func (s *SFNT) Outline(text string, size float64) ([]Command, error) {
	var buf sfnt.Buffer
	// font units are loaded with ppem equal to units per em.
	k := size / float64(s.upem)
	pt := func(p fixed.Point26_6, x float64) r2.Vec {
		return r2.Vec{X: (x + float64(p.X)) * k, Y: float64(p.Y) * k}
	}
	var cmds []Command
	var x float64
	var prev sfnt.GlyphIndex
	for gi, r := range []rune(text) {
		idx, err := s.f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", r, err)
		}
		if gi > 0 {
			kern, err := s.f.Kern(&buf, prev, idx, s.upem, font.HintingNone)
			if err == nil {
				x += float64(kern)
			} else if !errors.Is(err, sfnt.ErrNotFound) {
				return nil, fmt.Errorf("kern %q: %w", r, err)
			}
		}
		segs, err := s.f.LoadGlyph(&buf, idx, s.upem, nil)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", r, err)
		}
		for _, seg := range segs {
			c := Command{Glyph: gi}
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				c.Op = MoveTo
				c.Pts[0] = pt(seg.Args[0], x)
			case sfnt.SegmentOpLineTo:
				c.Op = LineTo
				c.Pts[0] = pt(seg.Args[0], x)
			case sfnt.SegmentOpQuadTo:
				c.Op = QuadTo
				c.Pts[0], c.Pts[1] = pt(seg.Args[0], x), pt(seg.Args[1], x)
			case sfnt.SegmentOpCubeTo:
				c.Op = CubeTo
				c.Pts[0], c.Pts[1], c.Pts[2] = pt(seg.Args[0], x), pt(seg.Args[1], x), pt(seg.Args[2], x)
			}
			cmds = append(cmds, c)
		}
		adv, err := s.f.GlyphAdvance(&buf, idx, s.upem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("advance %q: %w", r, err)
		}
		x += float64(adv)
		prev = idx
	}
	return cmds, nil
}
