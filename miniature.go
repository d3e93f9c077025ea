// Package miniature composes printable models: track miniatures made of a
// base plate, an elevation ribbon and a text plate, and PSU mounting
// brackets. Models are solids from package kernel and are exported as
// meshes through package render.
package miniature

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/soypat/miniature/kernel"
	"github.com/soypat/miniature/render"
)

// Application is written in exported file headers.
const Application = "miniature"

// Part names of composed models.
const (
	PartBase      = "base"
	PartTextPlate = "textPlate"
	PartText      = "text"
	PartRibbon    = "ribbon"
	PartShell     = "shell"
	PartEars      = "ears"
	PartRibs      = "ribs"
)

// Model is a composed solid with its non empty parts in the same frame.
type Model struct {
	Solid kernel.Solid
	Parts map[string]kernel.Solid
	Title string
	// Colors maps part names to display colors. Colors never affect geometry.
	Colors map[string]string
	// Color is the display color of the whole model.
	Color string
	// Cells is the default mesh resolution.
	Cells int

	k  *kernel.Kernel
	id uuid.UUID
}

// IsEmpty reports whether the model has no volume.
func (m *Model) IsEmpty() bool { return m.Solid.IsEmpty() }

// Mesh triangulates the model. cells <= 0 uses the model's Cells.
// Building and meshing identical parameters produces identical meshes.
func (m *Model) Mesh(cells int) (*render.Mesh, error) {
	if cells <= 0 {
		cells = m.Cells
	}
	return m.k.Mesh(m.Solid, cells)
}

// Meta returns the 3MF header of the model. The UUID is derived from
// the build parameters.
func (m *Model) Meta() render.Meta {
	return render.Meta{
		Title:       m.Title,
		Unit:        "millimeter",
		Application: Application,
		Color:       m.Color,
		UUID:        m.id,
	}
}

// Write3MF meshes the model and writes it as a 3MF package. 3MF objects
// need at least one triangle, so an empty model is refused with
// ErrDegenerateInput and nothing is written. Building an empty model is not
// an error; only exporting it is.
func (m *Model) Write3MF(w io.Writer, cells int) error {
	mesh, err := m.Mesh(cells)
	if err != nil {
		return err
	}
	if mesh.IsEmpty() {
		return fmt.Errorf("%s: %w: model is empty", m.Title, ErrDegenerateInput)
	}
	return render.Write3MF(w, mesh, m.Meta())
}

// WriteSTL meshes the model and writes it as binary STL. Empty models are
// refused like in Write3MF.
func (m *Model) WriteSTL(w io.Writer, cells int) error {
	mesh, err := m.Mesh(cells)
	if err != nil {
		return err
	}
	if mesh.IsEmpty() {
		return fmt.Errorf("%s: %w: model is empty", m.Title, ErrDegenerateInput)
	}
	return render.WriteMeshSTL(w, mesh)
}

func newModel(k *kernel.Kernel, title string, params interface{}, cells int) *Model {
	b, _ := json.Marshal(params)
	return &Model{
		Title:  title,
		Parts:  make(map[string]kernel.Solid),
		Colors: make(map[string]string),
		Cells:  cells,
		k:      k,
		id:     uuid.NewSHA1(uuid.NameSpaceOID, append([]byte(title+"\x00"), b...)),
	}
}

// compose unions the parts and moves the result so its bounding box
// minimum is at the origin.
func (m *Model) compose() {
	var parts []kernel.Solid
	for _, name := range partOrder {
		if s, ok := m.Parts[name]; ok {
			parts = append(parts, s)
		}
	}
	m.Solid = m.k.Union(parts...)
	if m.Solid.IsEmpty() {
		return
	}
	shift := m.Solid.Bounds().Min
	shift.X, shift.Y, shift.Z = -shift.X, -shift.Y, -shift.Z
	m.Solid = m.k.Translate(m.Solid, shift)
	for name, s := range m.Parts {
		m.Parts[name] = m.k.Translate(s, shift)
	}
}

var partOrder = []string{PartBase, PartTextPlate, PartText, PartRibbon, PartShell, PartEars, PartRibs}

func (m *Model) addPart(name string, s kernel.Solid, color string) {
	if s.IsEmpty() {
		return
	}
	m.Parts[name] = s
	if color != "" {
		m.Colors[name] = color
	}
}
