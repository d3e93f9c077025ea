package miniature

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/miniature/glyph"
	"github.com/soypat/miniature/kernel"
	"github.com/soypat/miniature/track"
	"gopkg.in/yaml.v3"
)

// GPXParams configure a track miniature. Lengths are millimetres and
// angles degrees. Field names in URL queries and preset files follow the
// form tags.
type GPXParams struct {
	Title string `form:"title" json:"title" toml:"title" yaml:"title" validate:"max=64"`
	// Font is a font source understood by glyph.Cache.
	Font              string  `form:"font" json:"font" toml:"font" yaml:"font"`
	FontSize          float64 `form:"fontSize" json:"fontSize" toml:"fontSize" yaml:"fontSize" validate:"gt=0"`
	TextThickness     float64 `form:"textThickness" json:"textThickness" toml:"textThickness" yaml:"textThickness" validate:"gte=0"`
	Width             float64 `form:"width" json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	PlateDepth        float64 `form:"plateDepth" json:"plateDepth" toml:"plateDepth" yaml:"plateDepth" validate:"gt=0"`
	Thickness         float64 `form:"thickness" json:"thickness" toml:"thickness" yaml:"thickness" validate:"gt=0"`
	Margin            float64 `form:"margin" json:"margin" toml:"margin" yaml:"margin" validate:"gte=0"`
	MaxPolylineHeight float64 `form:"maxPolylineHeight" json:"maxPolylineHeight" toml:"maxPolylineHeight" yaml:"maxPolylineHeight" validate:"gt=0"`
	// TruncatePct is the percentage of the track shown.
	TruncatePct      float64 `form:"outBack" json:"outBack" toml:"outBack" yaml:"outBack" validate:"gte=0,lte=100"`
	MapRotation      float64 `form:"mapRotation" json:"mapRotation" toml:"mapRotation" yaml:"mapRotation" validate:"gte=-360,lte=360"`
	BaseColor        string  `form:"baseColor" json:"baseColor" toml:"baseColor" yaml:"baseColor" validate:"omitempty,hexcolor"`
	PolylineColor    string  `form:"polylineColor" json:"polylineColor" toml:"polylineColor" yaml:"polylineColor" validate:"omitempty,hexcolor"`
	SlantedTextPlate bool    `form:"slantedTextPlate" json:"slantedTextPlate" toml:"slantedTextPlate" yaml:"slantedTextPlate"`
	EdgeWidth        float64 `form:"edgeWidth" json:"edgeWidth" toml:"edgeWidth" yaml:"edgeWidth" validate:"gt=0"`
	// SampleCap limits the number of track samples used.
	SampleCap int `form:"sampleCap" json:"sampleCap" toml:"sampleCap" yaml:"sampleCap" validate:"gte=0"`
	MeshCells int `form:"meshCells" json:"meshCells" toml:"meshCells" yaml:"meshCells" validate:"gte=0,lte=2000"`
}

// DefaultGPXParams returns the default track miniature.
func DefaultGPXParams() GPXParams {
	return GPXParams{
		Title:             "Century *100*",
		Font:              glyph.GoRegular,
		FontSize:          3.5,
		TextThickness:     2,
		Width:             50,
		PlateDepth:        10,
		Thickness:         5,
		Margin:            2.5,
		MaxPolylineHeight: 20,
		TruncatePct:       100,
		BaseColor:         "#1a1a1a",
		PolylineColor:     "#ff0090",
		EdgeWidth:         1,
		SampleCap:         track.DefaultCap,
		MeshCells:         kernel.DefaultCells,
	}
}

// BracketParams configure a PSU bracket. Lengths are millimetres.
type BracketParams struct {
	Width        float64 `form:"width" json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	Depth        float64 `form:"depth" json:"depth" toml:"depth" yaml:"depth" validate:"gt=0"`
	Height       float64 `form:"height" json:"height" toml:"height" yaml:"height" validate:"gt=0"`
	Thickness    float64 `form:"bracketThickness" json:"bracketThickness" toml:"bracketThickness" yaml:"bracketThickness" validate:"gt=0"`
	RibCount     int     `form:"ribbingCount" json:"ribbingCount" toml:"ribbingCount" yaml:"ribbingCount" validate:"gte=0,lte=50"`
	RibThickness float64 `form:"ribbingThickness" json:"ribbingThickness" toml:"ribbingThickness" yaml:"ribbingThickness" validate:"gte=0"`
	HoleDiameter float64 `form:"holeDiameter" json:"holeDiameter" toml:"holeDiameter" yaml:"holeDiameter" validate:"gte=0"`
	EarWidth     float64 `form:"earWidth" json:"earWidth" toml:"earWidth" yaml:"earWidth" validate:"gte=0"`
	HasBottom    bool    `form:"hasBottom" json:"hasBottom" toml:"hasBottom" yaml:"hasBottom"`
	Color        string  `form:"color" json:"color" toml:"color" yaml:"color" validate:"omitempty,hexcolor"`
	MeshCells    int     `form:"meshCells" json:"meshCells" toml:"meshCells" yaml:"meshCells" validate:"gte=0,lte=2000"`
	// Material compensates the printed size for shrinkage, see package matter.
	Material string `form:"material" json:"material" toml:"material" yaml:"material" validate:"omitempty,oneof=none pla"`
}

// DefaultBracketParams returns the default bracket for a 35x20x15 PSU.
func DefaultBracketParams() BracketParams {
	return BracketParams{
		Width:        35,
		Depth:        20,
		Height:       15,
		Thickness:    3,
		RibCount:     3,
		RibThickness: 2,
		HoleDiameter: 3.5,
		EarWidth:     10,
		Color:        "#ff0090",
		MeshCells:    kernel.DefaultCells,
	}
}

// Dimensions returns the WxDxH label used in download names.
func (p BracketParams) Dimensions() string {
	return fmt.Sprintf("%gx%gx%g", p.Width, p.Depth, p.Height)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(GPXParams)
		if 2*p.Margin >= p.Width {
			sl.ReportError(p.Margin, "Margin", "Margin", "margin", "")
		}
	}, GPXParams{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(BracketParams)
		// Several ribs are inset by one rib thickness at each end of the depth.
		need := p.RibThickness
		if p.RibCount > 1 {
			need *= float64(p.RibCount + 2)
		}
		if p.RibCount > 0 && need > p.Depth {
			sl.ReportError(p.RibCount, "RibCount", "RibCount", "ribfit", "")
		}
	}, BracketParams{})
	return v
}

// Validate checks p. The error names the first invalid field.
func (p GPXParams) Validate() error { return validateStruct(p) }

// Validate checks p. The error names the first invalid field.
func (p BracketParams) Validate() error { return validateStruct(p) }

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s (%s %s): %w", fe.Field(), fe.Tag(), fe.Param(), err)
	}
	return err
}

// LoadGPXParams reads a .toml, .yaml, .yml or .json preset on top of the
// defaults.
func LoadGPXParams(path string) (GPXParams, error) {
	p := DefaultGPXParams()
	err := loadPreset(path, &p)
	return p, err
}

// LoadBracketParams reads a .toml, .yaml, .yml or .json preset on top of
// the defaults.
func LoadBracketParams(path string) (BracketParams, error) {
	p := DefaultBracketParams()
	err := loadPreset(path, &p)
	return p, err
}

func loadPreset(path string, dst interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, dst)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, dst)
	case ".json":
		err = json.Unmarshal(b, dst)
	default:
		return fmt.Errorf("preset %s: unknown format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	return nil
}
