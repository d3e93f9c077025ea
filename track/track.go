// Package track imports GPS tracks and reduces them to the plate-local
// points and ribbon heights used to model a track miniature.
package track

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultCap is the default maximum number of samples kept on import.
const DefaultCap = 200

// Sample is a single track point. Position holds (lon, lat) in degrees.
type Sample struct {
	Position  orb.Point
	Elevation float64
}

// Track is an ordered sequence of samples.
type Track struct {
	Name    string
	Samples []Sample
}

// LineString returns the track positions.
func (t Track) LineString() orb.LineString {
	ls := make(orb.LineString, len(t.Samples))
	for i, s := range t.Samples {
		ls[i] = s.Position
	}
	return ls
}

// Positions returns the track positions as points.
func (t Track) Positions() []orb.Point {
	return []orb.Point(t.LineString())
}

// Elevations returns the sample elevations in order.
func (t Track) Elevations() []float64 {
	e := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		e[i] = s.Elevation
	}
	return e
}

// Length returns the great circle length of the track in metres.
func (t Track) Length() float64 {
	return geo.LengthHaversine(t.LineString())
}

// Bound returns the (lon, lat) bounding box of the track.
func (t Track) Bound() orb.Bound {
	return t.LineString().Bound()
}

// Subsample returns at most limit samples taken with a uniform stride of
// floor(len/limit), starting at the first sample. limit <= 0 keeps every sample.
func Subsample(samples []Sample, limit int) []Sample {
	if limit <= 0 || len(samples) <= limit {
		return samples
	}
	stride := len(samples) / limit
	if stride < 1 {
		stride = 1
	}
	out := make([]Sample, 0, limit)
	for i := 0; i < len(samples) && len(out) < limit; i += stride {
		out = append(out, samples[i])
	}
	return out
}
