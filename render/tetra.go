package render

import "gonum.org/v1/gonum/spatial/r3"

// tetraMaxTriangles is the maximum number of triangles a single cube can produce.
const tetraMaxTriangles = 12

// minEdgeFrac keeps interpolated vertices strictly inside their edge. Corners
// valued exactly zero, or close enough that the vertex would round onto the
// corner, would otherwise make several edges weld into one vertex and pinch
// the surface.
const minEdgeFrac = 1e-6

// kuhn lists the six tetrahedra of a cube that share the diagonal between
// corner 0 and corner 7. Corner index bits are x=1, y=2, z=4. Using the same
// split for every cube makes the diagonals of shared faces match up.
var kuhn = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// tetraCube writes the isosurface triangles of a cube to dst and returns the
// number written. Zero valued corners are considered outside.
func tetraCube(dst []Triangle3, corners *[8]v3i, pos *[8]r3.Vec, values *[8]float64) (n int) {
	for _, t := range kuhn {
		n += tetra(dst[n:], t, corners, pos, values)
	}
	return n
}

func tetra(dst []Triangle3, t [4]int, corners *[8]v3i, pos *[8]r3.Vec, values *[8]float64) int {
	var in, out [4]int
	var nin, nout int
	for _, i := range t {
		if values[i] < 0 {
			in[nin] = i
			nin++
		} else {
			out[nout] = i
			nout++
		}
	}
	if nin == 0 || nout == 0 {
		return 0
	}
	edge := func(a, b int) r3.Vec {
		// interpolate from the lesser grid point so shared edges match exactly.
		if corners[b].less(corners[a]) {
			a, b = b, a
		}
		return edgeVertex(pos[a], pos[b], values[a], values[b])
	}
	// The winding is decided on the grid so it never depends on how thin
	// the triangle is.
	switch nin {
	case 1:
		a := in[0]
		e := [3][2]int{{a, out[0]}, {a, out[1]}, {a, out[2]}}
		return emit(dst, flipped(corners, in[:nin], out[:nout], e),
			edge(a, out[0]), edge(a, out[1]), edge(a, out[2]))
	case 3:
		a := out[0]
		e := [3][2]int{{a, in[0]}, {a, in[1]}, {a, in[2]}}
		return emit(dst, flipped(corners, in[:nin], out[:nout], e),
			edge(a, in[0]), edge(a, in[1]), edge(a, in[2]))
	}
	// two inside, two outside: the surface is a quad.
	a, b, c, d := in[0], in[1], out[0], out[1]
	flip := flipped(corners, in[:nin], out[:nout], [3][2]int{{a, c}, {a, d}, {b, d}})
	ac, ad, bd, bc := edge(a, c), edge(a, d), edge(b, d), edge(b, c)
	n := emit(dst, flip, ac, ad, bd)
	return n + emit(dst[n:], flip, ac, bd, bc)
}

// flipped reports whether the triangle through the edges e must be reversed
// for its normal to point from the inside corners to the outside corners.
// It is evaluated exactly at the edge midpoints in grid coordinates, where
// the triangle is never degenerate.
func flipped(corners *[8]v3i, in, out []int, e [3][2]int) bool {
	var m [3][3]int64
	for i, ed := range e {
		for j := range m[i] {
			m[i][j] = int64(corners[ed[0]][j] + corners[ed[1]][j])
		}
	}
	var dir [3]int64
	for j := range dir {
		for _, i := range out {
			dir[j] += int64(len(in) * corners[i][j])
		}
		for _, i := range in {
			dir[j] -= int64(len(out) * corners[i][j])
		}
	}
	var u, v [3]int64
	for j := range u {
		u[j] = m[1][j] - m[0][j]
		v[j] = m[2][j] - m[0][j]
	}
	n := [3]int64{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	return n[0]*dir[0]+n[1]*dir[1]+n[2]*dir[2] < 0
}

// edgeVertex returns the zero crossing of the linear field between pa and pb,
// kept strictly inside the edge.
func edgeVertex(pa, pb r3.Vec, va, vb float64) r3.Vec {
	k := va / (va - vb)
	switch {
	case !(k >= minEdgeFrac):
		k = minEdgeFrac
	case k > 1-minEdgeFrac:
		k = 1 - minEdgeFrac
	}
	return r3.Vec{
		X: pa.X + k*(pb.X-pa.X),
		Y: pa.Y + k*(pb.Y-pa.Y),
		Z: pa.Z + k*(pb.Z-pa.Z),
	}
}

// emit writes the triangle to dst, reversed when flip is set.
// Triangles with coincident vertices are dropped.
func emit(dst []Triangle3, flip bool, v0, v1, v2 r3.Vec) int {
	if v0 == v1 || v1 == v2 || v2 == v0 {
		return 0
	}
	if flip {
		v1, v2 = v2, v1
	}
	dst[0] = Triangle3{V: [3]r3.Vec{v0, v1, v2}}
	return 1
}
