package render

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
)

// MIME3MF is the media type of a 3MF package.
const MIME3MF = "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"

const (
	ns3MFCore       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	ns3MFProduction = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	model3MFPath    = "3D/3dmodel.model"
)

// Meta is the 3MF package header.
type Meta struct {
	Title       string
	Unit        string // defaults to millimeter
	Application string
	// Color is the display color of the object as #RRGGBB. Empty omits it.
	Color string
	// UUID identifies the build. A random one is generated if nil.
	UUID uuid.UUID
}

type model3MF struct {
	XMLName   xml.Name      `xml:"model"`
	Unit      string        `xml:"unit,attr"`
	Lang      string        `xml:"xml:lang,attr"`
	NS        string        `xml:"xmlns,attr"`
	NSProd    string        `xml:"xmlns:p,attr"`
	Metadata  []metadata3MF `xml:"metadata"`
	Materials *materials3MF `xml:"resources>basematerials,omitempty"`
	Object    object3MF     `xml:"resources>object"`
	Build     build3MF      `xml:"build"`
}

type metadata3MF struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type materials3MF struct {
	ID   int       `xml:"id,attr"`
	Base []base3MF `xml:"base"`
}

type base3MF struct {
	Name  string `xml:"name,attr"`
	Color string `xml:"displaycolor,attr"`
}

type object3MF struct {
	ID        int           `xml:"id,attr"`
	Type      string        `xml:"type,attr"`
	Name      string        `xml:"name,attr,omitempty"`
	UUID      string        `xml:"p:UUID,attr,omitempty"`
	PID       string        `xml:"pid,attr,omitempty"`
	PIndex    string        `xml:"pindex,attr,omitempty"`
	Vertices  []vertex3MF   `xml:"mesh>vertices>vertex"`
	Triangles []triangle3MF `xml:"mesh>triangles>triangle"`
}

type vertex3MF struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
	Z string `xml:"z,attr"`
}

type triangle3MF struct {
	V1 uint32 `xml:"v1,attr"`
	V2 uint32 `xml:"v2,attr"`
	V3 uint32 `xml:"v3,attr"`
}

type build3MF struct {
	UUID string    `xml:"p:UUID,attr,omitempty"`
	Item []item3MF `xml:"item"`
}

type item3MF struct {
	ObjectID int    `xml:"objectid,attr"`
	UUID     string `xml:"p:UUID,attr,omitempty"`
}

const contentTypes3MF = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>`

const rels3MF = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Target="/3D/3dmodel.model" Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>`

// Write3MF writes the mesh as a single object 3MF package to w.
// Vertex coordinates are written with 7 significant digits.
func Write3MF(w io.Writer, m *Mesh, meta Meta) error {
	if m == nil || m.IsEmpty() {
		return errors.New("empty mesh")
	}
	if meta.Unit == "" {
		meta.Unit = "millimeter"
	}
	id := meta.UUID
	if id == uuid.Nil {
		id = uuid.New()
	}
	doc := model3MF{
		Unit:   meta.Unit,
		Lang:   "en-US",
		NS:     ns3MFCore,
		NSProd: ns3MFProduction,
		Object: object3MF{
			ID:   1,
			Type: "model",
			Name: meta.Title,
			UUID: uuid.NewSHA1(id, []byte("object")).String(),
		},
		Build: build3MF{
			UUID: id.String(),
			Item: []item3MF{{ObjectID: 1, UUID: uuid.NewSHA1(id, []byte("item")).String()}},
		},
	}
	for _, md := range [][2]string{{"Title", meta.Title}, {"Application", meta.Application}} {
		if md[1] != "" {
			doc.Metadata = append(doc.Metadata, metadata3MF{Name: md[0], Value: md[1]})
		}
	}
	if meta.Color != "" {
		doc.Materials = &materials3MF{ID: 2, Base: []base3MF{{Name: meta.Title, Color: meta.Color}}}
		doc.Object.PID = "2"
		doc.Object.PIndex = "0"
	}
	doc.Object.Vertices = make([]vertex3MF, m.VertexCount())
	for i := range doc.Object.Vertices {
		v := m.Vertices[3*i : 3*i+3]
		doc.Object.Vertices[i] = vertex3MF{X: format3MF(v[0]), Y: format3MF(v[1]), Z: format3MF(v[2])}
	}
	doc.Object.Triangles = make([]triangle3MF, m.TriangleCount())
	for i := range doc.Object.Triangles {
		doc.Object.Triangles[i] = triangle3MF{V1: m.Indices[3*i], V2: m.Indices[3*i+1], V3: m.Indices[3*i+2]}
	}

	zw := zip.NewWriter(w)
	for _, f := range []struct {
		name string
		body func(io.Writer) error
	}{
		{"[Content_Types].xml", writeString(contentTypes3MF)},
		{"_rels/.rels", writeString(rels3MF)},
		{model3MFPath, func(w io.Writer) error {
			if _, err := io.WriteString(w, xml.Header); err != nil {
				return err
			}
			return xml.NewEncoder(w).Encode(&doc)
		}},
	} {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("3mf %s: %w", f.name, err)
		}
		if err = f.body(fw); err != nil {
			return fmt.Errorf("3mf %s: %w", f.name, err)
		}
	}
	return zw.Close()
}

// Read3MF reads the first object of a 3MF package written by Write3MF.
// The build UUID and vertex normals are not restored.
func Read3MF(r io.ReaderAt, size int64) (*Mesh, Meta, error) {
	var meta Meta
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, meta, err
	}
	f, err := zr.Open(model3MFPath)
	if err != nil {
		return nil, meta, err
	}
	defer f.Close()
	var doc model3MF
	if err = xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, meta, fmt.Errorf("3mf model: %w", err)
	}
	meta.Unit = doc.Unit
	for _, md := range doc.Metadata {
		switch md.Name {
		case "Title":
			meta.Title = md.Value
		case "Application":
			meta.Application = md.Value
		}
	}
	if doc.Materials != nil && len(doc.Materials.Base) > 0 {
		meta.Color = doc.Materials.Base[0].Color
	}
	m := &Mesh{
		Vertices: make([]float32, 0, 3*len(doc.Object.Vertices)),
		Indices:  make([]uint32, 0, 3*len(doc.Object.Triangles)),
	}
	for _, v := range doc.Object.Vertices {
		for _, s := range [3]string{v.X, v.Y, v.Z} {
			c, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, meta, fmt.Errorf("3mf vertex: %w", err)
			}
			m.Vertices = append(m.Vertices, float32(c))
		}
	}
	nv := uint32(len(doc.Object.Vertices))
	for _, t := range doc.Object.Triangles {
		if t.V1 >= nv || t.V2 >= nv || t.V3 >= nv {
			return nil, meta, errors.New("3mf triangle index out of range")
		}
		m.Indices = append(m.Indices, t.V1, t.V2, t.V3)
	}
	return m, meta, nil
}

func format3MF(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 7, 32)
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}
