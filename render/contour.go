package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/internal/d2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D exports of closed contours such as text outlines.

func contourBounds(contours [][]r2.Vec) (d2.Box, error) {
	var bb d2.Box
	first := true
	for _, c := range contours {
		if len(c) == 0 {
			continue
		}
		cb := d2.BoxOf(c)
		if first {
			bb, first = cb, false
		} else {
			bb = bb.Extend(cb)
		}
	}
	if first {
		return bb, errors.New("no contours to export")
	}
	return bb, nil
}

// WriteSVG writes the contours as a single SVG path in millimetres. Model
// coordinates are y-up and are flipped to the y-down SVG convention.
func WriteSVG(w io.Writer, contours [][]r2.Vec, rule form2.FillRule) error {
	bb, err := contourBounds(contours)
	if err != nil {
		return err
	}
	size := bb.Size()
	var d strings.Builder
	for _, c := range contours {
		for i, p := range c {
			if i == 0 {
				d.WriteString("M")
			} else {
				d.WriteString(" L")
			}
			d.WriteString(ftoa(p.X - bb.Min.X))
			d.WriteByte(' ')
			d.WriteString(ftoa(bb.Max.Y - p.Y))
		}
		if len(c) > 0 {
			d.WriteString(" Z ")
		}
	}
	canvas := svg.New(w)
	canvas.Startunit(int(math.Ceil(size.X)), int(math.Ceil(size.Y)), "mm",
		fmt.Sprintf(`viewBox="0 0 %s %s"`, ftoa(math.Ceil(size.X)), ftoa(math.Ceil(size.Y))))
	canvas.Path(d.String(), "fill:black;stroke:none;fill-rule:"+rule.String())
	canvas.End()
	return nil
}

// SaveDXF writes the contours as closed lightweight polylines to a DXF file.
func SaveDXF(path, layer string, contours [][]r2.Vec) error {
	if _, err := contourBounds(contours); err != nil {
		return err
	}
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	if layer != "" {
		d.AddLayer(layer, color.Red, dxf.DefaultLineType, true)
	}
	for _, c := range contours {
		n := len(c)
		if n > 1 && c[0] == c[n-1] {
			n--
		}
		if n < 2 {
			continue
		}
		lwp := entity.NewLwPolyline(n)
		for j, p := range c[:n] {
			lwp.Vertices[j] = []float64{p.X, p.Y}
		}
		lwp.Close()
		d.AddEntity(lwp)
	}
	return d.SaveAs(path)
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
