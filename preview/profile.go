package preview

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/paulmach/orb/geo"
	"github.com/soypat/miniature/track"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Profile size of ElevationProfile images.
var (
	ProfileWidth  = 8 * vg.Inch
	ProfileHeight = 3 * vg.Inch
)

// ProfilePoints returns the elevation of every sample against the
// cumulative haversine distance in kilometres.
func ProfilePoints(tr track.Track) plotter.XYs {
	pts := make(plotter.XYs, len(tr.Samples))
	var dist float64
	for i, s := range tr.Samples {
		if i > 0 {
			dist += geo.DistanceHaversine(tr.Samples[i-1].Position, s.Position) / 1000
		}
		pts[i] = plotter.XY{X: dist, Y: s.Elevation}
	}
	return pts
}

// ElevationProfile plots the track's elevation profile and writes it to w.
// format is any format supported by gonum plot such as "png" or "svg".
func ElevationProfile(w io.Writer, tr track.Track, format string) error {
	if len(tr.Samples) < 2 {
		return errors.New("preview: elevation profile needs at least two samples")
	}
	p := plot.New()
	p.Title.Text = tr.Name
	p.X.Label.Text = "Distance (km)"
	p.Y.Label.Text = "Elevation (m)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(ProfilePoints(tr))
	if err != nil {
		return fmt.Errorf("profile line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{R: 0xff, B: 0x90, A: 0xff}
	line.FillColor = color.RGBA{R: 0xff, G: 0xd0, B: 0xe8, A: 0xff}
	p.Add(line)

	wt, err := p.WriterTo(ProfileWidth, ProfileHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
