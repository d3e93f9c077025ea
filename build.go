package miniature

import (
	"fmt"

	"github.com/soypat/miniature/bracket"
	"github.com/soypat/miniature/glyph"
	"github.com/soypat/miniature/helpers/matter"
	"github.com/soypat/miniature/internal/monitoring"
	"github.com/soypat/miniature/kernel"
	"github.com/soypat/miniature/ribbon"
	"github.com/soypat/miniature/text3"
	"github.com/soypat/miniature/track"
	"gonum.org/v1/gonum/spatial/r3"
)

// BuildGPX composes a track miniature. The base plate spans
// [0,Width]x[PlateDepth,PlateDepth+Width], the text plate lies in front of
// it and the ribbon stands on the base plate. font may be nil, in which
// case the model has no text.
func BuildGPX(k *kernel.Kernel, font glyph.Outliner, tr track.Track, p GPXParams) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	title := p.Title
	if title == "" {
		title = tr.Name
	}
	m := newModel(k, title, p, p.MeshCells)
	m.Color = p.BaseColor

	base, err := k.Box(r3.Vec{X: p.Width, Y: p.Width, Z: p.Thickness})
	if err != nil {
		return nil, err
	}
	m.addPart(PartBase, k.Translate(base, r3.Vec{Y: p.PlateDepth}), p.BaseColor)

	var contours []glyph.Contour
	b := glyph.NewBuilder()
	if font != nil {
		contours, err = b.Build(font, p.Title, p.FontSize)
		if err != nil {
			return nil, fmt.Errorf("title %q: %w", p.Title, err)
		}
	}
	plate, err := text3.Build(k, contours, b.FillRule, text3.Params{
		Width:         p.Width,
		Depth:         p.PlateDepth,
		Thickness:     p.Thickness,
		TextThickness: p.TextThickness,
		Slanted:       p.SlantedTextPlate,
	})
	if err != nil {
		return nil, err
	}
	m.addPart(PartTextPlate, plate.Plate, p.BaseColor)
	m.addPart(PartText, plate.Text, p.PolylineColor)

	samples := track.Subsample(tr.Samples, p.SampleCap)
	if len(samples) >= 2 {
		sub := track.Track{Name: tr.Name, Samples: samples}
		norm, err := track.Normalize(sub.Positions(), p.MapRotation, p.Width, p.Margin)
		if err != nil {
			return nil, err
		}
		heights, err := track.ScaleElevation(sub.Elevations(), p.MaxPolylineHeight)
		if err != nil {
			return nil, err
		}
		rib, err := ribbon.Extrude(k, norm.Points, heights, ribbon.Params{EdgeWidth: p.EdgeWidth, TruncatePct: p.TruncatePct})
		if err != nil {
			return nil, err
		}
		m.addPart(PartRibbon, k.Translate(rib, r3.Vec{X: norm.Offset.X, Y: p.PlateDepth + norm.Offset.Y, Z: p.Thickness}), p.PolylineColor)
	} else {
		monitoring.Logf("miniature: track %q has %d samples, ribbon omitted", tr.Name, len(samples))
	}
	m.compose()
	return m, nil
}

// BuildBracket composes a PSU bracket.
func BuildBracket(k *kernel.Kernel, p BracketParams) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	mat, err := matter.Lookup(p.Material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateInput, err)
	}
	m := newModel(k, "bracket-"+p.Dimensions(), p, p.MeshCells)
	m.Color = p.Color
	parts, err := bracket.Build(k, bracket.Params{
		Width:        p.Width,
		Height:       p.Height,
		Depth:        p.Depth,
		Thickness:    p.Thickness,
		HoleDiameter: mat.InternalDim(p.HoleDiameter),
		EarWidth:     p.EarWidth,
		RibThickness: p.RibThickness,
		RibCount:     p.RibCount,
		HasBottom:    p.HasBottom,
	})
	if err != nil {
		return nil, err
	}
	m.addPart(PartShell, parts.Shell, p.Color)
	m.addPart(PartEars, parts.Ears, p.Color)
	m.addPart(PartRibs, parts.Ribs, p.Color)
	m.compose()
	if mat != matter.None {
		m.Solid = mat.Scale(k, m.Solid)
		for name, s := range m.Parts {
			m.Parts[name] = mat.Scale(k, s)
		}
	}
	return m, nil
}
