package glyph

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/miniature/internal/d2"
	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/internal/monitoring"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/spatial/r2"
)

func init() { monitoring.SetLogger(nil) }

func move(x, y float64) Command { return Command{Op: MoveTo, Pts: [3]r2.Vec{{X: x, Y: y}}} }
func line(x, y float64) Command { return Command{Op: LineTo, Pts: [3]r2.Vec{{X: x, Y: y}}} }

func TestContoursSquare(t *testing.T) {
	b := NewBuilder()
	got := b.Contours([]Command{
		move(0, 0), line(10, 0), line(10, -10), line(0, -10), {Op: Close},
		// unclosed and degenerate.
		move(0, 0), line(1, 0), line(1, 0),
	})
	want := []Contour{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContoursOrientation(t *testing.T) {
	// clockwise outer square with a counter clockwise hole, y up after flip.
	cmds := []Command{
		move(0, 0), line(0, -10), line(10, -10), line(10, 0), {Op: Close},
		move(2, -2), line(8, -2), line(8, -8), line(2, -8), {Op: Close},
		// second glyph, already counter clockwise.
		{Op: MoveTo, Pts: [3]r2.Vec{{X: 20}}, Glyph: 1},
		{Op: LineTo, Pts: [3]r2.Vec{{X: 30}}, Glyph: 1},
		{Op: LineTo, Pts: [3]r2.Vec{{X: 30, Y: -10}}, Glyph: 1},
		{Op: Close, Glyph: 1},
	}
	b := NewBuilder()
	got := b.Contours(cmds)
	if len(got) != 3 {
		t.Fatalf("got %d contours, want 3", len(got))
	}
	areas := []float64{d2.Set(got[0]).SignedArea(), d2.Set(got[1]).SignedArea(), d2.Set(got[2]).SignedArea()}
	if areas[0] != 100 || areas[1] != -36 || areas[2] != 50 {
		t.Errorf("got signed areas %v, want [100 -36 50]", areas)
	}
	b.Orientation = Keep
	got = b.Contours(cmds)
	if a := d2.Set(got[0]).SignedArea(); a != -100 {
		t.Errorf("Keep: got outer area %g, want -100", a)
	}
}

func TestFlattenQuad(t *testing.T) {
	b := NewBuilder()
	b.Orientation = Keep
	got := b.Contours([]Command{
		move(0, 0),
		{Op: QuadTo, Pts: [3]r2.Vec{{X: 5, Y: -10}, {X: 10, Y: 0}}},
		{Op: Close},
	})
	if len(got) != 1 {
		t.Fatalf("got %d contours, want 1", len(got))
	}
	c := got[0]
	if len(c) < 8 || len(c) > 1<<10+2 {
		t.Fatalf("unexpected number of points %d", len(c))
	}
	curve := func(x float64) float64 { return 0.2 * x * (10 - x) }
	for i, p := range c {
		if math.Abs(p.Y-curve(p.X)) > 1e-9 {
			t.Errorf("point %d %v not on curve", i, p)
		}
		if i > 0 && c[i-1].X < p.X {
			m := mid(c[i-1], p)
			if dev := curve(m.X) - m.Y; dev > 0.02 || dev < -1e-9 {
				t.Errorf("chord %d deviates %g from curve", i, dev)
			}
		}
	}
	if c[0] != c[len(c)-1] {
		t.Error("contour not closed")
	}
}

func bounds(cs []Contour) d2.Box {
	var s d2.Set
	for _, c := range cs {
		s = append(s, c...)
	}
	return d2.BoxOf(s)
}

func TestGoRegularO(t *testing.T) {
	sf, err := ParseSFNT(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	tt, err := ParseTrueType(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder()
	var boxes []d2.Box
	for name, o := range map[string]Outliner{"sfnt": sf, "truetype": tt} {
		cs, err := b.Build(o, "O", 10)
		if err != nil {
			t.Fatal(name, err)
		}
		if len(cs) != 2 {
			t.Fatalf("%s: got %d contours for O, want 2", name, len(cs))
		}
		a0, a1 := d2.Set(cs[0]).SignedArea(), d2.Set(cs[1]).SignedArea()
		if a0*a1 >= 0 {
			t.Errorf("%s: contours have same winding: %g %g", name, a0, a1)
		}
		if math.Max(a0, a1) < math.Abs(math.Min(a0, a1)) {
			t.Errorf("%s: outer contour not counter clockwise: %g %g", name, a0, a1)
		}
		bb := bounds(cs)
		if bb.Min.Y < -1 || bb.Max.Y > 10 || bb.Max.X > 10 || bb.Min.X < 0 {
			t.Errorf("%s: unexpected bounds %v", name, bb)
		}
		boxes = append(boxes, bb)
	}
	if !d2.EqualWithin(boxes[0].Min, boxes[1].Min, 1e-3) || !d2.EqualWithin(boxes[0].Max, boxes[1].Max, 1e-3) {
		t.Errorf("outliners disagree: %v %v", boxes[0], boxes[1])
	}
}

func TestGoRegularText(t *testing.T) {
	o, err := ParseSFNT(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder()
	cs, err := b.Build(o, "Hi", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 3 {
		t.Fatalf("got %d contours, want 3", len(cs))
	}
	for i, c := range cs {
		if a := d2.Set(c).SignedArea(); a <= 0 {
			t.Errorf("contour %d has area %g, want positive", i, a)
		}
	}
	for _, text := range []string{"", "   "} {
		cs, err := b.Build(o, text, 5)
		if cs != nil || err != nil {
			t.Errorf("%q: got %d contours err %v, want none", text, len(cs), err)
		}
	}
}

func TestCacheSources(t *testing.T) {
	ctx := context.Background()
	var c Cache
	o1, err := c.Load(ctx, GoRegular)
	if err != nil {
		t.Fatal(err)
	}
	o2, _ := c.Load(ctx, GoRegular)
	if o1 != o2 {
		t.Error("font not cached")
	}
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(ctx, path); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(ctx, filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, errs.ErrCapabilityInit) {
		t.Errorf("missing file: got err %v", err)
	}
}

func TestCacheHTTPRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Write(goregular.TTF)
	}))
	defer srv.Close()
	c := Cache{Client: srv.Client(), Parse: func(b []byte) (Outliner, error) { return ParseTrueType(b) }}
	ctx := context.Background()
	url := srv.URL + "/go.ttf"
	if _, err := c.Load(ctx, url); !errors.Is(err, errs.ErrCapabilityInit) {
		t.Fatalf("got err %v, want ErrCapabilityInit", err)
	}
	var wg sync.WaitGroup
	got := make([]Outliner, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := c.Load(ctx, url)
			if err != nil {
				t.Error(err)
			}
			got[i] = o
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] {
			t.Fatal("concurrent loads returned different fonts")
		}
	}
	if _, ok := got[0].(*TrueType); !ok {
		t.Errorf("got %T, want *TrueType", got[0])
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("got %d requests, want 2", n)
	}
}
