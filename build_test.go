package miniature

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/soypat/miniature/glyph"
	"github.com/soypat/miniature/internal/monitoring"
	"github.com/soypat/miniature/kernel"
	"github.com/soypat/miniature/track"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() { monitoring.SetLogger(nil) }

func loop(n int) track.Track {
	tr := track.Track{Name: "loop"}
	for i := 0; i < n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		tr.Samples = append(tr.Samples, track.Sample{
			Position:  orb.Point{-105.1 + 0.01*math.Cos(th), 39.7 + 0.01*math.Sin(th)},
			Elevation: 1700 + 50*math.Sin(2*th),
		})
	}
	return tr
}

func near(a, b r3.Vec, tol float64) bool { return r3.Norm(r3.Sub(a, b)) <= tol }

func TestBuildBracket(t *testing.T) {
	k := &kernel.Kernel{Cells: 50}
	p := DefaultBracketParams()
	p.MeshCells = 50
	m, err := BuildBracket(k, p)
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "bracket-35x20x15" {
		t.Errorf("got title %q", m.Title)
	}
	bb := m.Solid.Bounds()
	if !near(bb.Min, r3.Vec{}, 1e-9) || !near(bb.Max, r3.Vec{X: 61, Y: 21, Z: 20}, 1e-9) {
		t.Errorf("got bounds %v", bb)
	}
	for _, part := range []string{PartShell, PartEars, PartRibs} {
		if _, ok := m.Parts[part]; !ok {
			t.Errorf("missing part %s", part)
		}
	}
	if m.Colors[PartShell] != p.Color {
		t.Errorf("got shell color %q, want %q", m.Colors[PartShell], p.Color)
	}
}

func TestBuildBracketMaterial(t *testing.T) {
	k := &kernel.Kernel{Cells: 50}
	p := DefaultBracketParams()
	p.Material = "pla"
	m, err := BuildBracket(k, p)
	if err != nil {
		t.Fatal(err)
	}
	s := 1 / 0.998
	bb := m.Solid.Bounds()
	if !near(bb.Min, r3.Vec{}, 1e-9) || !near(bb.Max, r3.Vec{X: 61 * s, Y: 21 * s, Z: 20 * s}, 1e-9) {
		t.Errorf("got bounds %v", bb)
	}
	// The compensated hole is larger than requested.
	probe := r3.Vec{X: 5*s + 1.8, Y: 19.5 * s, Z: 10 * s}
	if d := m.Parts[PartEars].SDF().Evaluate(probe); d <= 0 {
		t.Errorf("point 1.8mm from hole axis is inside the ear (d=%g)", d)
	}
	plain, err := BuildBracket(k, DefaultBracketParams())
	if err != nil {
		t.Fatal(err)
	}
	if d := plain.Parts[PartEars].SDF().Evaluate(r3.Vec{X: 6.8, Y: 19.5, Z: 10}); d >= 0 {
		t.Errorf("uncompensated hole reaches 1.8mm from its axis (d=%g)", d)
	}
	p.Material = "wood"
	if _, err := BuildBracket(k, p); err == nil {
		t.Error("expected error for unknown material")
	}
}

func TestBuildDeterministic(t *testing.T) {
	k := &kernel.Kernel{Cells: 40}
	p := DefaultBracketParams()
	var out [2]bytes.Buffer
	for i := range out {
		m, err := BuildBracket(k, p)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Write3MF(&out[i], 40); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(out[0].Bytes(), out[1].Bytes()) {
		t.Error("identical parameters produced different 3MF packages")
	}
	a, _ := BuildBracket(k, p)
	p.Width++
	b, _ := BuildBracket(k, p)
	if a.Meta().UUID == b.Meta().UUID {
		t.Error("different parameters share a build UUID")
	}
}

func TestBuildGPX(t *testing.T) {
	font, err := glyph.ParseSFNT(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	k := &kernel.Kernel{Cells: 50}
	p := DefaultGPXParams()
	p.MeshCells = 50
	m, err := BuildGPX(k, font, loop(80), p)
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{PartBase, PartTextPlate, PartText, PartRibbon} {
		if _, ok := m.Parts[part]; !ok {
			t.Errorf("missing part %s", part)
		}
	}
	bb := m.Solid.Bounds()
	if !near(bb.Min, r3.Vec{}, 1e-9) {
		t.Errorf("got bounds min %v, want origin", bb.Min)
	}
	if math.Abs(bb.Max.X-50) > 1e-9 || math.Abs(bb.Max.Y-60) > 1e-9 {
		t.Errorf("got bounds max %v, want 50x60 footprint", bb.Max)
	}
	if math.Abs(bb.Max.Z-25) > 1e-6 {
		t.Errorf("got top %g, want 25", bb.Max.Z)
	}
	rb := m.Parts[PartRibbon].Bounds()
	if rb.Min.Y < p.PlateDepth || math.Abs(rb.Min.Z-p.Thickness) > 1e-9 {
		t.Errorf("ribbon not on the base plate: %v", rb)
	}
	mesh, err := m.Mesh(0)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.IsEmpty() || !mesh.Closed() {
		t.Errorf("mesh empty=%v closed=%v", mesh.IsEmpty(), mesh.Closed())
	}
}

func TestBuildGPXMeshClosed(t *testing.T) {
	font, err := glyph.ParseSFNT(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name    string
		slanted bool
		cells   int
	}{
		{name: "flat", cells: 100},
		{name: "slanted", slanted: true, cells: 100},
		{name: "flat default cells", cells: kernel.DefaultCells},
		{name: "slanted default cells", slanted: true, cells: kernel.DefaultCells},
	} {
		t.Run(test.name, func(t *testing.T) {
			if testing.Short() && test.cells > 100 {
				t.Skip("full resolution mesh")
			}
			k := &kernel.Kernel{Cells: test.cells}
			p := DefaultGPXParams()
			p.SlantedTextPlate = test.slanted
			m, err := BuildGPX(k, font, loop(80), p)
			if err != nil {
				t.Fatal(err)
			}
			mesh, err := m.Mesh(test.cells)
			if err != nil {
				t.Fatal(err)
			}
			if mesh.IsEmpty() {
				t.Fatal("empty mesh")
			}
			if !mesh.Closed() {
				t.Error("mesh is not closed")
			}
		})
	}
}

func TestWriteEmptyModel(t *testing.T) {
	k := &kernel.Kernel{Cells: 20}
	m := newModel(k, "empty", DefaultBracketParams(), 20)
	m.compose()
	if !m.IsEmpty() {
		t.Fatal("model without parts is not empty")
	}
	for name, write := range map[string]func(io.Writer, int) error{"3mf": m.Write3MF, "stl": m.WriteSTL} {
		var buf bytes.Buffer
		if err := write(&buf, 0); !errors.Is(err, ErrDegenerateInput) {
			t.Errorf("%s: got err %v, want ErrDegenerateInput", name, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: refused export wrote %d bytes", name, buf.Len())
		}
	}
}

func TestBuildGPXEdgeCases(t *testing.T) {
	k := &kernel.Kernel{Cells: 30}
	p := DefaultGPXParams()
	m, err := BuildGPX(k, nil, loop(1), p)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Parts[PartRibbon]; ok {
		t.Error("single sample track has a ribbon")
	}
	if _, ok := m.Parts[PartText]; ok {
		t.Error("model without font has text")
	}
	same := track.Track{Samples: []track.Sample{{Position: orb.Point{1, 1}}, {Position: orb.Point{1, 1}}}}
	if _, err := BuildGPX(k, nil, same, p); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("zero extent track: got err %v", err)
	}
	p.TruncatePct = 150
	if _, err := BuildGPX(k, nil, loop(10), p); err == nil {
		t.Error("expected validation error")
	}
}
