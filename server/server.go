// Package server exposes the model builders over HTTP. Parameters are
// decoded from the URL query using the web form field names so a shared
// URL restores a model.
package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soypat/miniature"
	"github.com/soypat/miniature/glyph"
	"github.com/soypat/miniature/internal/monitoring"
	"github.com/soypat/miniature/kernel"
	"github.com/soypat/miniature/preview"
	"github.com/soypat/miniature/render"
	"github.com/soypat/miniature/track"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxUploadSize limits track uploads.
const MaxUploadSize = 16 << 20

// Server builds models on request. Kernel and font capabilities are
// loaded lazily and shared between requests.
type Server struct {
	Kernels *kernel.Loader
	Fonts   *glyph.Cache
	// Preview shows the most recently requested model.
	Preview *preview.Renderer
	// FontSources lists the font sources requests may name.
	FontSources []string

	mu     sync.Mutex
	seq    uint64
	latest uint64
}

// New returns a Server with fresh capability loaders.
func New() *Server {
	return &Server{
		Kernels:     &kernel.Loader{},
		Fonts:       &glyph.Cache{},
		Preview:     preview.NewRenderer(preview.DefaultView()),
		FontSources: []string{glyph.GoRegular},
	}
}

func (s *Server) font(c *gin.Context, src string) (glyph.Outliner, error) {
	for _, allowed := range s.FontSources {
		if src == allowed {
			return s.Fonts.Load(c.Request.Context(), src)
		}
	}
	return nil, &paramError{fmt.Errorf("font %q not available", src)}
}

// Handler returns a gin engine with all routes registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	s.Routes(r)
	return r
}

// Routes registers the server endpoints on r.
func (s *Server) Routes(r gin.IRoutes) {
	r.GET("/healthz", s.healthz)

	r.GET("/bracket.3mf", s.bracket(format3MF))
	r.GET("/bracket.stl", s.bracket(formatSTL))
	r.GET("/bracket.json", s.bracket(formatJSON))
	r.GET("/bracket.png", s.bracket(formatPNG))

	r.GET("/gpx.3mf", s.gpx(format3MF, false))
	r.POST("/gpx.3mf", s.gpx(format3MF, true))
	r.POST("/gpx.stl", s.gpx(formatSTL, true))
	r.POST("/gpx.json", s.gpx(formatJSON, true))
	r.POST("/gpx.png", s.gpx(formatPNG, true))
	r.GET("/gpx.svg", s.titleSVG)
	r.POST("/profile.png", s.profile)

	r.GET("/preview.png", s.preview)
}

func (s *Server) healthz(c *gin.Context) {
	if _, err := s.Kernels.Load(c.Request.Context()); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) bracket(f format) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := miniature.DefaultBracketParams()
		if err := bindQuery(c, &p); err != nil {
			abort(c, err)
			return
		}
		k, err := s.Kernels.Load(c.Request.Context())
		if err != nil {
			abort(c, err)
			return
		}
		s.build(c, f, "bracket-"+p.Dimensions(), func() (*miniature.Model, error) {
			return miniature.BuildBracket(k, p)
		})
	}
}

func (s *Server) gpx(f format, upload bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := miniature.DefaultGPXParams()
		if err := bindQuery(c, &p); err != nil {
			abort(c, err)
			return
		}
		var tr track.Track
		if upload {
			var err error
			tr, err = readTrack(c)
			if err != nil {
				abort(c, err)
				return
			}
		}
		k, err := s.Kernels.Load(c.Request.Context())
		if err != nil {
			abort(c, err)
			return
		}
		font, err := s.font(c, p.Font)
		if err != nil {
			abort(c, err)
			return
		}
		s.build(c, f, "gpx", func() (*miniature.Model, error) {
			return miniature.BuildGPX(k, font, tr, p)
		})
	}
}

// titleSVG writes the title outline as SVG, useful for laser cut plates.
func (s *Server) titleSVG(c *gin.Context) {
	p := miniature.DefaultGPXParams()
	if err := bindQuery(c, &p); err != nil {
		abort(c, err)
		return
	}
	font, err := s.font(c, p.Font)
	if err != nil {
		abort(c, err)
		return
	}
	b := glyph.NewBuilder()
	contours, err := b.Build(font, p.Title, p.FontSize)
	if err != nil {
		abort(c, err)
		return
	}
	var buf bytes.Buffer
	paths := make([][]r2.Vec, len(contours))
	for i, ct := range contours {
		paths[i] = ct
	}
	if err := render.WriteSVG(&buf, paths, b.FillRule); err != nil {
		abort(c, fmt.Errorf("%w: %v", miniature.ErrDegenerateInput, err))
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) profile(c *gin.Context) {
	tr, err := readTrack(c)
	if err != nil {
		abort(c, err)
		return
	}
	var buf bytes.Buffer
	if err := preview.ElevationProfile(&buf, tr, "png"); err != nil {
		abort(c, fmt.Errorf("%w: %v", miniature.ErrDegenerateInput, err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) preview(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.Preview.WritePNG(&buf); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// build runs the model builder, encodes the result and, if no newer
// request has started meanwhile, shows it in the preview.
func (s *Server) build(c *gin.Context, f format, name string, fn func() (*miniature.Model, error)) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	id := uuid.New()
	c.Header("X-Build-Id", id.String())
	m, err := fn()
	if err != nil {
		monitoring.Logf("server: build %s %s: %v", id, name, err)
		abort(c, err)
		return
	}
	mesh, err := m.Mesh(0)
	if err != nil {
		abort(c, err)
		return
	}
	s.mu.Lock()
	if seq > s.latest {
		s.latest = seq
		s.Preview.Replace(mesh)
	} else {
		monitoring.Logf("server: build %s superseded, not previewed", id)
	}
	s.mu.Unlock()
	var buf bytes.Buffer
	if err := f.encode(&buf, m, mesh, s.Preview.View); err != nil {
		abort(c, err)
		return
	}
	monitoring.Logf("server: build %s %s: %d triangles, %d bytes", id, name, mesh.TriangleCount(), buf.Len())
	if f.ext != "json" && f.ext != "png" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+f.ext))
	}
	c.Data(http.StatusOK, f.contentType, buf.Bytes())
}

// bindQuery decodes the query over the defaults already in p and
// validates the result. Checkbox values "on" decode as true.
func bindQuery(c *gin.Context, p interface{ Validate() error }) error {
	q := c.Request.URL.Query()
	for key, vals := range q {
		for i, v := range vals {
			if v == "on" {
				vals[i] = "true"
			}
		}
		q[key] = vals
	}
	c.Request.URL.RawQuery = q.Encode()
	if err := c.ShouldBindQuery(p); err != nil {
		return &paramError{err}
	}
	if err := p.Validate(); err != nil {
		return &paramError{err}
	}
	return nil
}

// readTrack decodes a GPX or GeoJSON track from the request body.
func readTrack(c *gin.Context) (track.Track, error) {
	body := bufio.NewReader(http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize))
	first, err := firstByte(body)
	if err != nil {
		return track.Track{}, &paramError{fmt.Errorf("reading track: %w", err)}
	}
	var tr track.Track
	if first == '{' {
		tr, err = track.ReadGeoJSON(body)
	} else {
		tr, err = track.ReadGPX(body)
	}
	if err != nil && !errors.Is(err, miniature.ErrDegenerateInput) {
		// Undecodable uploads are the client's fault.
		return tr, &paramError{err}
	}
	return tr, err
}

func firstByte(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, errors.New("empty body")
			}
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n', 0xef, 0xbb, 0xbf:
			r.ReadByte()
		default:
			return b[0], nil
		}
	}
}

// Query returns the URL query that restores p, for sharing links.
func Query(p interface{}) (url.Values, error) {
	return formValues(p)
}
