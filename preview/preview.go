// Package preview renders meshes and tracks to raster images for quick
// inspection of a model before it is printed.
package preview

import (
	"errors"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/miniature/internal/d3"
	"github.com/soypat/miniature/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoMesh is returned when rendering a Renderer that holds no mesh.
var ErrNoMesh = errors.New("preview: no mesh to render")

// View configures the camera and colors of a mesh preview. The mesh is
// fitted to a bi-unit cube centered at the origin before rendering so Eye
// and LookAt are given in that normalized space.
type View struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples
	// for antialiasing.
	Supersample int
	Eye         r3.Vec
	LookAt      r3.Vec
	Up          r3.Vec
	FOV         float64 // vertical field of view in degrees
	Near, Far   float64
	Color       string
	Background  string
}

// DefaultView returns an isometric view with the model's Z axis up.
func DefaultView() View {
	return View{
		Width:       768,
		Height:      432,
		Supersample: 2,
		Eye:         d3.Elem(2.4),
		Up:          r3.Vec{Z: 1},
		FOV:         30,
		Near:        1,
		Far:         10,
		Color:       "#ff0090",
		Background:  "#FFF8E3",
	}
}

// Renderer holds the mesh currently shown and redraws it on demand.
// Replace and Image may be called from different goroutines.
type Renderer struct {
	View View

	mu   sync.Mutex
	mesh *fauxgl.Mesh
}

// NewRenderer returns a Renderer with no mesh.
func NewRenderer(v View) *Renderer {
	return &Renderer{View: v}
}

// Replace swaps the displayed mesh. An empty or nil mesh clears the view.
func (r *Renderer) Replace(m *render.Mesh) {
	fm := toFauxgl(m)
	r.mu.Lock()
	r.mesh = fm
	r.mu.Unlock()
}

// Image renders the current mesh.
func (r *Renderer) Image() (image.Image, error) {
	r.mu.Lock()
	m := r.mesh
	r.mu.Unlock()
	if m == nil {
		return nil, ErrNoMesh
	}
	return draw(m, r.View)
}

// WritePNG renders the current mesh as a PNG image.
func (r *Renderer) WritePNG(w io.Writer) error {
	img, err := r.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderPNG renders m with view v and writes it as PNG to w.
func RenderPNG(w io.Writer, m *render.Mesh, v View) error {
	r := NewRenderer(v)
	r.Replace(m)
	return r.WritePNG(w)
}

func toFauxgl(m *render.Mesh) *fauxgl.Mesh {
	if m == nil || m.IsEmpty() {
		return nil
	}
	tris := make([]*fauxgl.Triangle, 0, m.TriangleCount())
	for _, t := range m.Triangles() {
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2])))
	}
	fm := fauxgl.NewTriangleMesh(tris)
	fm.BiUnitCube()
	return fm
}

func draw(m *fauxgl.Mesh, v View) (image.Image, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, errors.New("preview: image size must be positive")
	}
	ss := v.Supersample
	if ss < 1 {
		ss = 1
	}
	var (
		eye    = vec(v.Eye)
		center = vec(v.LookAt)
		up     = vec(v.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	ctx := fauxgl.NewContext(v.Width*ss, v.Height*ss)
	ctx.ClearColorBufferWith(fauxgl.HexColor(v.Background))
	aspect := float64(v.Width) / float64(v.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(v.FOV, aspect, v.Near, v.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(v.Color)
	ctx.Shader = shader
	ctx.DrawMesh(m)
	img := ctx.Image()
	if ss > 1 {
		img = resize.Resize(uint(v.Width), uint(v.Height), img, resize.Bilinear)
	}
	return img, nil
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
