package render

import (
	"io"

	"github.com/goccy/go-json"
)

// WriteMeshJSON writes the mesh as a JSON object with flat vertices,
// normals and indices arrays, the layout expected by WebGL viewers.
func WriteMeshJSON(w io.Writer, m *Mesh) error {
	return json.NewEncoder(w).Encode(m)
}

// ReadMeshJSON decodes a mesh written by WriteMeshJSON.
func ReadMeshJSON(r io.Reader) (*Mesh, error) {
	var m Mesh
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
