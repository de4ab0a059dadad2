package color

import (
	"errors"
	"testing"
)

var sampleColors = []Color{
	"#000000", "#ffffff", "#808080", "#282a36", "#f8f8f2", "#ff5555",
	"#50fa7b", "#bd93f9", "#44475a", "#6272a4", "#FFB86C", "#0a0a0a",
}

func TestLightenDarken_Endpoints(t *testing.T) {
	e := NewEngine()

	for _, c := range sampleColors {
		canon := c.Canonical()

		if got, err := e.Lighten(c, 0); err != nil || got != canon {
			t.Errorf("Lighten(%q, 0) = %q, %v; want %q", c, got, err, canon)
		}
		if got, err := e.Lighten(c, 1); err != nil || got != "#ffffff" {
			t.Errorf("Lighten(%q, 1) = %q, %v; want #ffffff", c, got, err)
		}
		if got, err := e.Darken(c, 0); err != nil || got != canon {
			t.Errorf("Darken(%q, 0) = %q, %v; want %q", c, got, err, canon)
		}
		if got, err := e.Darken(c, 1); err != nil || got != "#000000" {
			t.Errorf("Darken(%q, 1) = %q, %v; want #000000", c, got, err)
		}
	}
}

func TestLightenDarken_Midpoint(t *testing.T) {
	e := NewEngine()

	got, err := e.Lighten("#808080", 0.5)
	if err != nil {
		t.Fatalf("Lighten() error = %v", err)
	}
	if got != "#c0c0c0" {
		t.Errorf("Lighten(#808080, 0.5) = %q, want #c0c0c0", got)
	}

	got, err = e.Darken("#808080", 0.5)
	if err != nil {
		t.Fatalf("Darken() error = %v", err)
	}
	if got != "#404040" {
		t.Errorf("Darken(#808080, 0.5) = %q, want #404040", got)
	}
}

func TestLightenDarken_InvalidArgs(t *testing.T) {
	e := NewEngine()

	for _, p := range []float64{-0.01, 1.01} {
		if _, err := e.Lighten("#808080", p); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Lighten(p=%v) error = %v, want ErrInvalidArgument", p, err)
		}
		if _, err := e.Darken("#808080", p); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Darken(p=%v) error = %v, want ErrInvalidArgument", p, err)
		}
	}
	if _, err := e.Lighten("#80808", 0.5); !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("Lighten(bad color) error = %v, want ErrInvalidColorFormat", err)
	}
}

func TestBlend(t *testing.T) {
	e := NewEngine()

	for _, a := range sampleColors {
		for _, b := range sampleColors {
			if got, err := e.Blend(a, b, 0); err != nil || got != a.Canonical() {
				t.Errorf("Blend(%q, %q, 0) = %q, %v; want %q", a, b, got, err, a.Canonical())
			}
			if got, err := e.Blend(a, b, 1); err != nil || got != b.Canonical() {
				t.Errorf("Blend(%q, %q, 1) = %q, %v; want %q", a, b, got, err, b.Canonical())
			}
		}
	}

	got, err := e.Blend("#000000", "#ffffff", 0.5)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	if got != "#808080" {
		t.Errorf("Blend(black, white, 0.5) = %q, want #808080", got)
	}

	if _, err := e.Blend("#000000", "#ffffff", 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Blend(ratio=2) error = %v, want ErrInvalidArgument", err)
	}
}

func TestSaturation(t *testing.T) {
	e := NewEngine()

	got, err := e.Desaturate("#ff0000", 1)
	if err != nil {
		t.Fatalf("Desaturate() error = %v", err)
	}
	if got != "#ffffff" {
		t.Errorf("Desaturate(#ff0000, 1) = %q, want #ffffff", got)
	}

	got, err = e.Saturate("#bf4040", 1)
	if err != nil {
		t.Fatalf("Saturate() error = %v", err)
	}
	if got != "#bf0000" {
		t.Errorf("Saturate(#bf4040, 1) = %q, want #bf0000", got)
	}

	if _, err := e.Saturate("#bf4040", 1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Saturate(amount=1.5) error = %v, want ErrInvalidArgument", err)
	}
}

func TestIsGrayscale(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		color Color
		want  bool
	}{
		{"#000000", true},
		{"#808080", true},
		{"#f8f8f2", true},
		{"#ff5555", false},
		{"#6272a4", false},
	}

	for _, tt := range tests {
		got, err := e.IsGrayscale(tt.color)
		if err != nil {
			t.Fatalf("IsGrayscale(%q) error = %v", tt.color, err)
		}
		if got != tt.want {
			t.Errorf("IsGrayscale(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}
