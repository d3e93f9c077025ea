package track

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/soypat/miniature/internal/errs"
)

// ElevationProperty is the feature property holding per vertex elevations
// of a GeoJSON track.
const ElevationProperty = "elevation"

// ReadGeoJSON decodes the first LineString or MultiLineString feature of a
// GeoJSON FeatureCollection. Elevations are read from the feature's
// ElevationProperty array when it has one value per vertex, otherwise all
// elevations are zero.
func ReadGeoJSON(r io.Reader) (Track, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Track{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return Track{}, fmt.Errorf("decoding geojson: %w", err)
	}
	for _, f := range fc.Features {
		var ls orb.LineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			ls = g
		case orb.MultiLineString:
			for _, l := range g {
				ls = append(ls, l...)
			}
		default:
			continue
		}
		if len(ls) == 0 {
			continue
		}
		t := Track{Name: f.Properties.MustString("name", ""), Samples: make([]Sample, len(ls))}
		elev := propertyFloats(f.Properties, ElevationProperty)
		for i, p := range ls {
			t.Samples[i].Position = p
			if len(elev) == len(ls) {
				t.Samples[i].Elevation = elev[i]
			}
		}
		return t, nil
	}
	return Track{}, fmt.Errorf("geojson has no line features: %w", errs.ErrDegenerateInput)
}

func propertyFloats(p geojson.Properties, key string) []float64 {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil
	}
	v := make([]float64, len(raw))
	for i, r := range raw {
		f, ok := r.(float64)
		if !ok {
			return nil
		}
		v[i] = f
	}
	return v
}
