package track

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/soypat/miniature/internal/errs"
)

type gpxDoc struct {
	XMLName xml.Name   `xml:"gpx"`
	Meta    gpxMeta    `xml:"metadata"`
	Tracks  []gpxTrack `xml:"trk"`
	Routes  []gpxRoute `xml:"rte"`
}

type gpxMeta struct {
	Name string `xml:"name"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name   string     `xml:"name"`
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat float64  `xml:"lat,attr"`
	Lon float64  `xml:"lon,attr"`
	Ele *float64 `xml:"ele"`
}

// ReadGPX decodes a GPX document. All track segments of all tracks are
// concatenated in document order; routes are used only when the document
// has no track points. Points without an elevation take the elevation of
// the previous point (0 at the start).
func ReadGPX(r io.Reader) (Track, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Track{}, fmt.Errorf("decoding gpx: %w", err)
	}
	var t Track
	var pts []gpxPoint
	for _, trk := range doc.Tracks {
		if t.Name == "" {
			t.Name = strings.TrimSpace(trk.Name)
		}
		for _, seg := range trk.Segments {
			pts = append(pts, seg.Points...)
		}
	}
	if len(pts) == 0 {
		for _, rte := range doc.Routes {
			if t.Name == "" {
				t.Name = strings.TrimSpace(rte.Name)
			}
			pts = append(pts, rte.Points...)
		}
	}
	if t.Name == "" {
		t.Name = strings.TrimSpace(doc.Meta.Name)
	}
	if len(pts) == 0 {
		return Track{}, fmt.Errorf("gpx has no track or route points: %w", errs.ErrDegenerateInput)
	}
	t.Samples = make([]Sample, len(pts))
	var ele float64
	for i, p := range pts {
		if p.Ele != nil {
			ele = *p.Ele
		}
		t.Samples[i] = Sample{Position: orb.Point{p.Lon, p.Lat}, Elevation: ele}
	}
	return t, nil
}
