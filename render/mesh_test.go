package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/hschendel/stl"
	"github.com/soypat/miniature/form2"
	"github.com/soypat/miniature/form3"
	"github.com/soypat/miniature/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func boxMesh(t testing.TB) *render.Mesh {
	t.Helper()
	box, err := form3.Box(r3.Vec{X: 3.1, Y: 2.3, Z: 1.3}, 0)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := render.RenderAll(render.NewOctreeRenderer(box, 15))
	if err != nil {
		t.Fatal(err)
	}
	return render.NewMesh(tris)
}

func TestNewMeshWeld(t *testing.T) {
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1}
	tetra := []render.Triangle3{
		{V: [3]r3.Vec{a, c, b}},
		{V: [3]r3.Vec{a, b, d}},
		{V: [3]r3.Vec{a, d, c}},
		{V: [3]r3.Vec{b, c, d}},
	}
	m := render.NewMesh(tetra)
	if m.VertexCount() != 4 {
		t.Errorf("got %d vertices, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 4 {
		t.Errorf("got %d triangles, want 4", m.TriangleCount())
	}
	if !m.Closed() {
		t.Error("tetrahedron should be closed")
	}
	open := render.NewMesh(tetra[:3])
	if open.Closed() {
		t.Error("tetrahedron missing a face reported closed")
	}
}

func TestSTLHschendelReadback(t *testing.T) {
	m := boxMesh(t)
	var b bytes.Buffer
	if err := render.WriteMeshSTL(&b, m); err != nil {
		t.Fatal(err)
	}
	solid, err := stl.ReadAll(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(solid.Triangles) != m.TriangleCount() {
		t.Fatalf("got %d triangles, want %d", len(solid.Triangles), m.TriangleCount())
	}
	for i, tri := range solid.Triangles {
		for j := 0; j < 3; j++ {
			v := m.Vertices[3*m.Indices[3*i+j]:]
			got := tri.Vertices[j]
			if got[0] != v[0] || got[1] != v[1] || got[2] != v[2] {
				t.Fatalf("triangle %d vertex %d: got %v want %v", i, j, got, v[:3])
			}
		}
	}
}

func Test3MFRoundTrip(t *testing.T) {
	m := boxMesh(t)
	meta := render.Meta{
		Title:       "box",
		Application: "miniature",
		Color:       "#FF8800",
		UUID:        uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
	}
	var b bytes.Buffer
	if err := render.Write3MF(&b, m, meta); err != nil {
		t.Fatal(err)
	}
	got, gotMeta, err := render.Read3MF(bytes.NewReader(b.Bytes()), int64(b.Len()))
	if err != nil {
		t.Fatal(err)
	}
	wantMeta := meta
	wantMeta.Unit = "millimeter"
	wantMeta.UUID = uuid.Nil
	if diff := cmp.Diff(wantMeta, gotMeta); diff != "" {
		t.Errorf("3MF metadata mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Indices, got.Indices); diff != "" {
		t.Errorf("3MF indices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Vertices, got.Vertices, cmpopts.EquateApprox(1e-6, 0)); diff != "" {
		t.Errorf("3MF vertices mismatch (-want +got):\n%s", diff)
	}
}

func Test3MFEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.Write3MF(&b, &render.Mesh{}, render.Meta{}); err == nil {
		t.Error("expected error writing empty mesh")
	}
}

func TestMeshJSON(t *testing.T) {
	m := boxMesh(t)
	var b bytes.Buffer
	if err := render.WriteMeshJSON(&b, m); err != nil {
		t.Fatal(err)
	}
	got, err := render.ReadMeshJSON(&b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("mesh JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestContourExports(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}, {X: 0, Y: 0}}
	hole := []r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}}
	contours := [][]r2.Vec{square, hole}

	var b bytes.Buffer
	if err := render.WriteSVG(&b, contours, form2.EvenOdd); err != nil {
		t.Fatal(err)
	}
	svg := b.String()
	for _, want := range []string{"<svg", "fill-rule:evenodd", "M0 3 L4 3"} {
		if !bytes.Contains([]byte(svg), []byte(want)) {
			t.Errorf("SVG output missing %q:\n%s", want, svg)
		}
	}

	path := filepath.Join(t.TempDir(), "contours.dxf")
	if err := render.SaveDXF(path, "text", contours); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty DXF file")
	}
	if err := render.WriteSVG(&b, nil, form2.NonZero); err == nil {
		t.Error("expected error exporting no contours")
	}
}
