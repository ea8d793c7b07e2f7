package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "plasma" {
		t.Errorf("Name: got %q", p.Name)
	}
	if len(p.Colors) != 11 {
		t.Errorf("got %d colors, want 11", len(p.Colors))
	}
}

func TestParseGPLSkipsHeaders(t *testing.T) {
	gpl := "GIMP Palette\nName: two\nColumns: 2\n# comment\n0 0 0 black\n255 255 255 white\nnot a color\n"
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "two" || len(p.Colors) != 2 {
		t.Fatalf("got %+v", p)
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("expected error for palette without colors")
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.gpl")
	if err := os.WriteFile(path, []byte("10 20 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL: %v", err)
	}
	if p.Colors[0] != (RGB{10, 20, 30}) {
		t.Errorf("got %v", p.Colors[0])
	}
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 25}},
		{1, RGB{200, 100, 50}},
		{2, RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestPitchColorEnds(t *testing.T) {
	th := New(nil)
	if got := string(th.Pitch(0)); got != "#0d0887" {
		t.Errorf("Pitch(0) = %s", got)
	}
	if got := string(th.Pitch(127)); got != "#f0f921" {
		t.Errorf("Pitch(127) = %s", got)
	}
}
