package render

import (
	"io"
	"math"
	"sync"

	"github.com/soypat/miniature/internal/d3"
	"github.com/soypat/miniature/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree renders using marching tetrahedra with octree space sampling.
type octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
}

type cube struct {
	v3i       // origin of cube as integers
	n   uint  // level of cube, size = 1 << n
}

// v3i is a 3D integer vector.
type v3i [3]int

func (a v3i) add(b v3i) v3i { return v3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a v3i) addScalar(b int) v3i { return v3i{a[0] + b, a[1] + b, a[2] + b} }

func (a v3i) less(b v3i) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// NewOctreeRenderer returns a marching tetrahedra implementation using octree
// cube sampling. meshCells is the number of cells along the longest axis of the
// bounding box of s. The sampled domain is enlarged by two cells on every side
// so that surfaces lying on the bounding box are closed.
//
// Output triangles are produced in a deterministic order and shared edges of
// neighbouring cells yield bit identical vertices, so the output can be welded
// into a closed mesh by exact vertex comparison.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) *octree {
	if meshCells < 2 {
		panic("meshCells must be 2 or larger")
	}
	if sdf.IsEmpty3(s) {
		return &octree{}
	}
	bb := d3.Box(s.Bounds())
	cell := d3.Max(bb.Size()) / float64(meshCells)
	if cell <= 0 {
		cell = 1e-3
	}
	bb = bb.Enlarge(d3.Elem(4 * cell))
	longAxis := d3.Max(bb.Size())
	// We want to test the smallest cube (side == cell) for emptiness
	// so the level = 0 cube is at half resolution.
	resolution := 0.5 * cell

	// how many cube levels for the octree?
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	return &octree{
		dc:        *newDc3(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      []cube{{v3i{0, 0, 0}, levels - 1}}, // start at the top level
	}
}

// ReadTriangles writes triangles rendered from the model into the argument buffer.
// returns number of triangles written and an error if present.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		// Done rendering model.
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

// readTriangles processes pending cubes until dst is full or no cubes are left.
func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	var tmp [tetraMaxTriangles]Triangle3
	processed := 0
	var newCubes []cube
	for _, c := range oc.todo {
		if n == len(dst) {
			break
		}
		tri, cubes := oc.processCube(tmp[:], c)
		newCubes = append(newCubes, cubes...)
		processed++
		written := copy(dst[n:], tmp[:tri])
		n += written
		if written < tri {
			oc.unwritten.Write(tmp[written:tri])
			break
		}
	}
	oc.todo = append(oc.todo[processed:], newCubes...)
	return n
}

// processCube generates triangles for a leaf cube or returns the non empty sub cubes.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		// this cube is at the required resolution
		var corners [8]v3i
		var pos [8]r3.Vec
		var values [8]float64
		for i := range corners {
			corners[i] = c.add(v3i{(i & 1) * 2, (i >> 1 & 1) * 2, (i >> 2 & 1) * 2})
			pos[i], values[i] = oc.dc.Evaluate(corners[i])
		}
		return tetraCube(dst, &corners, &pos, &values), nil
	}
	// process the sub cubes
	n := c.n - 1
	s := 1 << n
	for i := 0; i < 8; i++ {
		candidate := cube{c.add(v3i{(i & 1) * s, (i >> 1 & 1) * s, (i >> 2 & 1) * s}), n}
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// dc3 implements a 3 dimensional distance cache. evaluates the SDF3 via a distance cache to avoid repeated evaluations.
type dc3 struct {
	mu         sync.Mutex      // lock the the cache during reads/writes
	cache      map[v3i]float64 // cache of distances
	origin     r3.Vec          // origin of the overall bounding cube
	resolution float64         // size of smallest octree cube
	hdiag      []float64       // lookup table of cube half diagonals
	s          sdf.SDF3        // the SDF3 to be rendered
}

// Evaluate returns the position of the integer grid point and the SDF3 value there.
func (dc *dc3) Evaluate(vi v3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Vec{
		X: dc.resolution * float64(vi[0]),
		Y: dc.resolution * float64(vi[1]),
		Z: dc.resolution * float64(vi[2]),
	})
	// do we have it in the cache?
	dist, found := dc.read(vi)
	if found {
		return v, dist
	}
	dist = dc.s.Evaluate(v)
	dc.write(vi, dist)
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	// evaluate the SDF3 at the center of the cube
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.addScalar(s))
	// compare to the center/corner distance
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[v3i]float64),
	}
	// build a lut for cube half diagonal lengths
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}

// read from the cache
func (dc *dc3) read(vi v3i) (float64, bool) {
	dc.mu.Lock()
	dist, found := dc.cache[vi]
	dc.mu.Unlock()
	return dist, found
}

// write to the cache
func (dc *dc3) write(vi v3i, dist float64) {
	dc.mu.Lock()
	dc.cache[vi] = dist
	dc.mu.Unlock()
}
