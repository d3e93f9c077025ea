package miniature

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultGPXParams().Validate(); err != nil {
		t.Error(err)
	}
	if err := DefaultBracketParams().Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidateNamesField(t *testing.T) {
	gpx := func(f func(p *GPXParams)) GPXParams {
		p := DefaultGPXParams()
		f(&p)
		return p
	}
	bracket := func(f func(p *BracketParams)) BracketParams {
		p := DefaultBracketParams()
		f(&p)
		return p
	}
	for _, test := range []struct {
		p     interface{ Validate() error }
		field string
	}{
		{p: gpx(func(p *GPXParams) { p.TruncatePct = 120 }), field: "TruncatePct"},
		{p: gpx(func(p *GPXParams) { p.TruncatePct = -1 }), field: "TruncatePct"},
		{p: gpx(func(p *GPXParams) { p.Margin = 25 }), field: "Margin"},
		{p: gpx(func(p *GPXParams) { p.BaseColor = "red" }), field: "BaseColor"},
		{p: gpx(func(p *GPXParams) { p.FontSize = 0 }), field: "FontSize"},
		{p: BracketParams{Depth: 1, Height: 1, Thickness: 1}, field: "Width"},
		{p: bracket(func(p *BracketParams) { p.RibCount = 9 }), field: "RibCount"},
		{p: bracket(func(p *BracketParams) { p.RibThickness = 6 }), field: "RibCount"},
	} {
		err := test.p.Validate()
		if err == nil || !strings.Contains(err.Error(), test.field) {
			t.Errorf("got err %v, want error naming %s", err, test.field)
		}
	}
}

func TestValidateRibsFit(t *testing.T) {
	p := DefaultBracketParams()
	// 2mm ribs: 8 ribs plus the two insets fill the 20mm depth exactly.
	p.RibCount = 8
	if err := p.Validate(); err != nil {
		t.Errorf("ribs filling the depth: %v", err)
	}
	p.RibCount = 1
	p.RibThickness = 20
	if err := p.Validate(); err != nil {
		t.Errorf("single rib as deep as the bracket: %v", err)
	}
	p.RibCount = 0
	p.RibThickness = 50
	if err := p.Validate(); err != nil {
		t.Errorf("no ribs: %v", err)
	}
}

func TestDimensions(t *testing.T) {
	if got := DefaultBracketParams().Dimensions(); got != "35x20x15" {
		t.Errorf("got %q, want 35x20x15", got)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPresets(t *testing.T) {
	want := DefaultGPXParams()
	want.Title = "Alps"
	want.Width = 80
	want.SlantedTextPlate = true

	for _, path := range []string{
		writeFile(t, "alps.toml", "title = \"Alps\"\nwidth = 80.0\nslantedTextPlate = true\n"),
		writeFile(t, "alps.yaml", "title: Alps\nwidth: 80\nslantedTextPlate: true\n"),
		writeFile(t, "alps.json", `{"title":"Alps","width":80,"slantedTextPlate":true}`),
	} {
		got, err := LoadGPXParams(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", filepath.Ext(path), diff)
		}
	}

	bp, err := LoadBracketParams(writeFile(t, "b.yml", "ribbingCount: 5\nhasBottom: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	wantB := DefaultBracketParams()
	wantB.RibCount = 5
	wantB.HasBottom = true
	if diff := cmp.Diff(wantB, bp); diff != "" {
		t.Errorf("bracket mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadGPXParams(writeFile(t, "p.ini", "")); err == nil {
		t.Error("expected error for unknown preset format")
	}
	if _, err := LoadGPXParams(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("expected error for malformed preset")
	}
}
