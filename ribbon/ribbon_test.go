package ribbon

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/kernel"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBisector(t *testing.T) {
	for _, test := range []struct {
		a2, a1, want float64
	}{
		{a2: 90, a1: 0, want: 45},
		{a2: 0, a1: 90, want: -45},
		{a2: 10, a1: 350, want: 10},
		{a2: 350, a1: 10, want: -10},
		{a2: 180, a1: 0, want: 90},
		{a2: 0, a1: 180, want: 90},
		{a2: -170, a1: 170, want: 10},
		{a2: 45, a1: 45, want: 0},
	} {
		got := Bisector(test.a2, test.a1)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("Bisector(%g, %g): got %g, want %g", test.a2, test.a1, got, test.want)
		}
	}
}

func TestBisectorWrapEquivalence(t *testing.T) {
	for a2 := -350.0; a2 <= 350; a2 += 35 {
		for a1 := -340.0; a1 <= 340; a1 += 85 {
			want := Bisector(a2, a1)
			if want <= -90 || want > 90 {
				t.Fatalf("Bisector(%g, %g) = %g out of range", a2, a1, want)
			}
			for _, shift := range []float64{-720, -360, 360, 720} {
				if got := Bisector(a2+shift, a1); math.Abs(got-want) > 1e-9 {
					t.Errorf("Bisector(%g, %g): got %g, want %g", a2+shift, a1, got, want)
				}
				if got := Bisector(a2, a1+shift); math.Abs(got-want) > 1e-9 {
					t.Errorf("Bisector(%g, %g): got %g, want %g", a2, a1+shift, got, want)
				}
			}
		}
	}
}

func TestUsed(t *testing.T) {
	for _, test := range []struct {
		pct  float64
		n    int
		want int
	}{
		{pct: 100, n: 10, want: 10},
		{pct: 50, n: 10, want: 5},
		{pct: 0, n: 10, want: 0},
		{pct: 25, n: 10, want: 3},
		{pct: 150, n: 10, want: 10},
	} {
		p := Params{EdgeWidth: 1, TruncatePct: test.pct}
		if got := p.Used(test.n); got != test.want {
			t.Errorf("Used(%d) at %g%%: got %d, want %d", test.n, test.pct, got, test.want)
		}
	}
}

var lpts = []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

func TestExtrudeEmpty(t *testing.T) {
	k := &kernel.Kernel{Cells: 40}
	for _, pct := range []float64{0, 10} {
		p := DefaultParams()
		p.TruncatePct = pct
		s, err := Extrude(k, lpts, []float64{2, 3, 4}, p)
		if err != nil {
			t.Fatal(err)
		}
		if !s.IsEmpty() {
			t.Errorf("truncate %g%%: expected empty ribbon", pct)
		}
	}
	s, err := Extrude(k, lpts[:1], []float64{2}, DefaultParams())
	if err != nil || !s.IsEmpty() {
		t.Errorf("single point: empty=%v err=%v", s.IsEmpty(), err)
	}
	if _, err := Extrude(k, lpts, []float64{1}, DefaultParams()); !errors.Is(err, errs.ErrDegenerateInput) {
		t.Errorf("mismatched heights: got err %v", err)
	}
}

func TestExtrudeGeometry(t *testing.T) {
	k := &kernel.Kernel{Cells: 40}
	s, err := Extrude(k, lpts, []float64{2, 3, 4}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	f := s.SDF()
	for _, test := range []struct {
		p      r3.Vec
		inside bool
	}{
		{p: r3.Vec{X: 5, Z: 2.4}, inside: true},
		{p: r3.Vec{X: 5, Z: 2.6}, inside: false},
		{p: r3.Vec{X: 5, Y: 0.6, Z: 1}, inside: false},
		{p: r3.Vec{X: 10, Y: 5, Z: 3.4}, inside: true},
		// outer miter corner, outside the joint cylinder.
		{p: r3.Vec{X: 10.45, Y: -0.47, Z: 1}, inside: true},
		// inner corner of the turn.
		{p: r3.Vec{X: 9.3, Y: 0.7, Z: 1}, inside: false},
		// caps.
		{p: r3.Vec{X: -0.4, Z: 1}, inside: true},
		{p: r3.Vec{X: -0.4, Y: 0.4, Z: 1}, inside: false},
		{p: r3.Vec{X: 10, Y: 10.4, Z: 1}, inside: true},
		{p: r3.Vec{Z: -0.1}, inside: false},
	} {
		d := f.Evaluate(test.p)
		if (d < 0) != test.inside {
			t.Errorf("point %v: got distance %g, want inside=%v", test.p, d, test.inside)
		}
	}
}

func TestExtrudeMeshClosed(t *testing.T) {
	k := &kernel.Kernel{Cells: 60}
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 4, Y: 9}, {X: 12, Y: 8.5}}
	h := []float64{2, 3, 3.5, 4, 2.5, 3}
	s, err := Extrude(k, pts, h, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	m, err := k.Mesh(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() || !m.Closed() {
		t.Fatalf("ribbon mesh empty=%v closed=%v", m.IsEmpty(), m.Closed())
	}
	bb := m.Bounds()
	cell := 14.0 / 60
	if bb.Min.Z < -cell || bb.Max.Z > 4+cell || bb.Min.X < -0.5-2*cell || bb.Min.Y < -0.5-2*cell {
		t.Errorf("ribbon mesh bounds %v outside expected region", bb)
	}
	if bb.Max.Z < 4-2*cell {
		t.Errorf("ribbon top %g, want about 4", bb.Max.Z)
	}
}
