package render

import (
	"math"

	"github.com/soypat/miniature/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. All arrays are flat: Vertices has 3
// floats per vertex (x,y,z), Normals has 3 floats per vertex and Indices has
// 3 indices per triangle, counter-clockwise seen from outside.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// NewMesh welds the triangles into an indexed mesh. Vertices are merged
// only when their coordinates are exactly equal. Triangles that collapse
// after welding are dropped. Vertex normals are the area weighted average
// of the adjacent face normals.
func NewMesh(triangles []Triangle3) *Mesh {
	m := &Mesh{}
	if len(triangles) == 0 {
		return m
	}
	index := make(map[r3.Vec]uint32, len(triangles)/2)
	var pos []r3.Vec
	var normals []r3.Vec
	m.Indices = make([]uint32, 0, 3*len(triangles))
	for _, t := range triangles {
		var idx [3]uint32
		for i, v := range t.V {
			j, ok := index[v]
			if !ok {
				j = uint32(len(pos))
				index[v] = j
				pos = append(pos, v)
				normals = append(normals, r3.Vec{})
			}
			idx[i] = j
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[2] == idx[0] {
			continue
		}
		// cross product magnitude is twice the area, which weights the normal.
		n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
		for _, j := range idx {
			normals[j] = r3.Add(normals[j], n)
		}
		m.Indices = append(m.Indices, idx[0], idx[1], idx[2])
	}
	m.Vertices = make([]float32, 0, 3*len(pos))
	m.Normals = make([]float32, 0, 3*len(pos))
	for i, v := range pos {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		n := normals[i]
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Vertex returns the i'th vertex.
func (m *Mesh) Vertex(i uint32) r3.Vec {
	v := m.Vertices[3*i : 3*i+3]
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Triangles returns the triangles of the mesh.
func (m *Mesh) Triangles() []Triangle3 {
	out := make([]Triangle3, m.TriangleCount())
	for i := range out {
		for j := 0; j < 3; j++ {
			out[i].V[j] = m.Vertex(m.Indices[3*i+j])
		}
	}
	return out
}

// Bounds returns the bounding box of the mesh vertices.
// An empty mesh has a zero bounding box.
func (m *Mesh) Bounds() r3.Box {
	if m.VertexCount() == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: d3.Elem(math.Inf(1)), Max: d3.Elem(math.Inf(-1))}
	for i := 0; i < m.VertexCount(); i++ {
		bb = bb.Include(m.Vertex(uint32(i)))
	}
	return r3.Box(bb)
}

// Closed reports whether every edge of the mesh is shared by exactly two
// triangles which traverse it in opposite directions. A closed mesh
// bounds a volume and is printable.
func (m *Mesh) Closed() bool {
	if m.IsEmpty() {
		return false
	}
	type edge struct{ a, b uint32 }
	count := make(map[edge]int, len(m.Indices))
	for i := 0; i < len(m.Indices); i += 3 {
		for j := 0; j < 3; j++ {
			a, b := m.Indices[i+j], m.Indices[i+(j+1)%3]
			count[edge{a, b}]++
		}
	}
	for e, n := range count {
		if n != 1 || count[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}
