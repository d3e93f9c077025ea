package server

import (
	"fmt"
	"io"

	"github.com/soypat/miniature"
	"github.com/soypat/miniature/preview"
	"github.com/soypat/miniature/render"
)

type format struct {
	ext         string
	contentType string
	encode      func(w io.Writer, m *miniature.Model, mesh *render.Mesh, v preview.View) error
}

var (
	format3MF = format{ext: "3mf", contentType: "model/3mf",
		encode: func(w io.Writer, m *miniature.Model, mesh *render.Mesh, _ preview.View) error {
			if mesh.IsEmpty() {
				return fmt.Errorf("%s: %w: model is empty", m.Title, miniature.ErrDegenerateInput)
			}
			return render.Write3MF(w, mesh, m.Meta())
		}}
	formatSTL = format{ext: "stl", contentType: "model/stl",
		encode: func(w io.Writer, m *miniature.Model, mesh *render.Mesh, _ preview.View) error {
			if mesh.IsEmpty() {
				return fmt.Errorf("%s: %w: model is empty", m.Title, miniature.ErrDegenerateInput)
			}
			return render.WriteMeshSTL(w, mesh)
		}}
	formatJSON = format{ext: "json", contentType: "application/json",
		encode: func(w io.Writer, _ *miniature.Model, mesh *render.Mesh, _ preview.View) error {
			return render.WriteMeshJSON(w, mesh)
		}}
	formatPNG = format{ext: "png", contentType: "image/png",
		encode: func(w io.Writer, _ *miniature.Model, mesh *render.Mesh, v preview.View) error {
			return preview.RenderPNG(w, mesh, v)
		}}
)
