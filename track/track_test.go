package track

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/soypat/miniature/internal/errs"
	"gonum.org/v1/gonum/spatial/r2"
)

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
 <metadata><name>meta name</name></metadata>
 <trk>
  <name> Century </name>
  <trkseg>
   <trkpt lat="46.5" lon="7.1"><ele>1720.8</ele></trkpt>
   <trkpt lat="46.6" lon="7.2"><ele>1710.8</ele></trkpt>
  </trkseg>
  <trkseg>
   <trkpt lat="46.7" lon="7.3"></trkpt>
   <trkpt lat="46.8" lon="7.4"><ele>1697.8</ele></trkpt>
  </trkseg>
 </trk>
</gpx>`

func TestReadGPX(t *testing.T) {
	tr, err := ReadGPX(strings.NewReader(testGPX))
	if err != nil {
		t.Fatal(err)
	}
	want := Track{Name: "Century", Samples: []Sample{
		{Position: orb.Point{7.1, 46.5}, Elevation: 1720.8},
		{Position: orb.Point{7.2, 46.6}, Elevation: 1710.8},
		{Position: orb.Point{7.3, 46.7}, Elevation: 1710.8},
		{Position: orb.Point{7.4, 46.8}, Elevation: 1697.8},
	}}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if l := tr.Length(); l < 30e3 || l > 50e3 {
		t.Errorf("unexpected track length %g m", l)
	}
}

func TestReadGPXErrors(t *testing.T) {
	_, err := ReadGPX(strings.NewReader(`<gpx><trk><trkseg></trkseg></trk></gpx>`))
	if !errors.Is(err, errs.ErrDegenerateInput) {
		t.Errorf("empty gpx: got err %v", err)
	}
	if _, err = ReadGPX(strings.NewReader(`<gpx><trk>`)); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestReadGPXRoute(t *testing.T) {
	const doc = `<gpx><rte><name>r</name><rtept lat="1" lon="2"><ele>5</ele></rtept><rtept lat="3" lon="4"/></rte></gpx>`
	tr, err := ReadGPX(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "r" || len(tr.Samples) != 2 || tr.Samples[1].Elevation != 5 {
		t.Errorf("got %+v", tr)
	}
}

func TestReadGeoJSON(t *testing.T) {
	const doc = `{"type":"FeatureCollection","features":[
	 {"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{}},
	 {"type":"Feature","geometry":{"type":"LineString","coordinates":[[7.1,46.5],[7.2,46.6],[7.3,46.7]]},
	  "properties":{"name":"ride","elevation":[10,20,15]}}]}`
	tr, err := ReadGeoJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := Track{Name: "ride", Samples: []Sample{
		{Position: orb.Point{7.1, 46.5}, Elevation: 10},
		{Position: orb.Point{7.2, 46.6}, Elevation: 20},
		{Position: orb.Point{7.3, 46.7}, Elevation: 15},
	}}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	_, err = ReadGeoJSON(strings.NewReader(`{"type":"FeatureCollection","features":[]}`))
	if !errors.Is(err, errs.ErrDegenerateInput) {
		t.Errorf("no lines: got err %v", err)
	}
}

func TestSubsample(t *testing.T) {
	samples := make([]Sample, 450)
	for i := range samples {
		samples[i].Elevation = float64(i)
	}
	got := Subsample(samples, DefaultCap)
	if len(got) != 200 {
		t.Fatalf("got %d samples, want 200", len(got))
	}
	if got[0].Elevation != 0 || got[1].Elevation != 2 || got[199].Elevation != 398 {
		t.Errorf("got first %g second %g last %g, want 0 2 398", got[0].Elevation, got[1].Elevation, got[199].Elevation)
	}
	for _, test := range []struct{ n, limit, want int }{
		{n: 10, limit: 200, want: 10},
		{n: 10, limit: 0, want: 10},
		{n: 399, limit: 200, want: 200},
		{n: 600, limit: 200, want: 200},
	} {
		if got := Subsample(make([]Sample, test.n), test.limit); len(got) != test.want {
			t.Errorf("Subsample(%d, %d): got %d samples, want %d", test.n, test.limit, len(got), test.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	pts := []orb.Point{{0, 0}, {2, 1}, {4, 0}}
	n, err := Normalize(pts, 0, 50, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	// 4x1 bounds into a 45mm square.
	if n.Scale != 45.0/4 {
		t.Errorf("got scale %g, want %g", n.Scale, 45.0/4)
	}
	want := []r2.Vec{{X: 0, Y: 0}, {X: 22.5, Y: 11.25}, {X: 45, Y: 0}}
	opt := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(want, n.Points, opt); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r2.Vec{X: 2.5, Y: 2.5 + (45-11.25)/2}, n.Offset, opt); diff != "" {
		t.Errorf("offset mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRotationInvariantScale(t *testing.T) {
	pts := []orb.Point{{0, 0}, {3, 1}, {1, 4}, {-2, 2}}
	shifted := make([]orb.Point, len(pts))
	for i, p := range pts {
		shifted[i] = orb.Point{p[0] + 100, p[1] - 40}
	}
	for _, rot := range []float64{0, 30, 90, 145, -60} {
		a, err := Normalize(pts, rot, 50, 2.5)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Normalize(shifted, rot, 50, 2.5)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(a.Scale-b.Scale) > 1e-9*a.Scale {
			t.Errorf("rotation %g: scale depends on translation: %g != %g", rot, a.Scale, b.Scale)
		}
		var maxX, maxY float64
		for _, p := range a.Points {
			if p.X < -1e-9 || p.Y < -1e-9 {
				t.Errorf("rotation %g: point %v below origin", rot, p)
			}
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
		if math.Abs(math.Max(maxX, maxY)-45) > 1e-9 {
			t.Errorf("rotation %g: longest side %g, want 45", rot, math.Max(maxX, maxY))
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	for _, test := range []struct {
		name  string
		pts   []orb.Point
		width float64
	}{
		{name: "vertical", pts: []orb.Point{{1, 0}, {1, 5}}, width: 50},
		{name: "single", pts: []orb.Point{{1, 1}}, width: 50},
		{name: "empty", width: 50},
		{name: "nan", pts: []orb.Point{{0, 0}, {math.NaN(), 1}}, width: 50},
		{name: "footprint", pts: []orb.Point{{0, 0}, {1, 1}}, width: 5},
	} {
		if _, err := Normalize(test.pts, 0, test.width, 2.5); !errors.Is(err, errs.ErrDegenerateInput) {
			t.Errorf("%s: got err %v, want ErrDegenerateInput", test.name, err)
		}
	}
}

func TestScaleElevation(t *testing.T) {
	h, err := ScaleElevation([]float64{100, 110, 105}, 20)
	if err != nil {
		t.Fatal(err)
	}
	// ribbon height min(19, 10) = 10.
	want := []float64{1 + 0.5, 1 + 9.5 + 0.5, 1 + 4.75 + 0.5}
	if diff := cmp.Diff(want, h, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	h, err = ScaleElevation([]float64{0, 1000}, 20)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(h[1]-20) > 1e-9 {
		t.Errorf("got top height %g, want 20", h[1])
	}
}

func TestScaleElevationFlat(t *testing.T) {
	h, err := ScaleElevation([]float64{42, 42, 42}, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range h {
		if v != MinRibbonHeight {
			t.Errorf("height %d: got %g, want %g", i, v, MinRibbonHeight)
		}
	}
	if h, err := ScaleElevation(nil, 20); h != nil || err != nil {
		t.Errorf("empty input: got %v, %v", h, err)
	}
	if _, err := ScaleElevation([]float64{1, math.Inf(1)}, 20); !errors.Is(err, errs.ErrDegenerateInput) {
		t.Errorf("inf elevation: got err %v", err)
	}
}
