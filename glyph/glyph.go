// Package glyph converts text into closed 2D contours in millimetres
// using a font outline capability.
package glyph

import "gonum.org/v1/gonum/spatial/r2"

// Op is a path drawing operation.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

func (op Op) String() string {
	switch op {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubeTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// Command is a single path command in screen coordinates (y grows
// downward), in millimetres. MoveTo and LineTo use Pts[0], QuadTo uses
// Pts[0] as control and Pts[1] as end point, CubeTo uses all three.
type Command struct {
	Op  Op
	Pts [3]r2.Vec
	// Glyph is the index of the glyph in the text this command belongs to.
	Glyph int
}

// end returns the point the pen is at after the command.
func (c Command) end() r2.Vec {
	switch c.Op {
	case QuadTo:
		return c.Pts[1]
	case CubeTo:
		return c.Pts[2]
	}
	return c.Pts[0]
}

// Outliner lays out text and returns its outline. Glyphs are advanced
// along +x from the origin on a baseline at y=0 with the em size equal
// to size millimetres.
type Outliner interface {
	Outline(text string, size float64) ([]Command, error)
}

// Contour is a closed polyline whose last point equals its first.
type Contour []r2.Vec
