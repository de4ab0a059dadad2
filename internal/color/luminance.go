package color

import (
	"math"
)

// WCAG 2.0 relative luminance constants.
// https://www.w3.org/TR/WCAG20/#relativeluminancedef
const (
	srgbLinearThreshold = 0.03928
	luminanceRed        = 0.2126
	luminanceGreen      = 0.7152
	luminanceBlue       = 0.0722
)

// Perceived brightness thresholds on the 0-255 scale.
const (
	DarkThreshold   = 100.0
	BrightThreshold = 155.0
)

// Brightness is a coarse classification of perceived luminance.
type Brightness int

const (
	BrightnessDark Brightness = iota
	BrightnessMedium
	BrightnessBright
)

func (b Brightness) String() string {
	switch b {
	case BrightnessDark:
		return "dark"
	case BrightnessMedium:
		return "medium"
	case BrightnessBright:
		return "bright"
	default:
		return "unknown"
	}
}

// RelativeLuminance returns the WCAG 2.0 relative luminance of c in [0,1].
// This is the only luminance that may be used for contrast ratios.
func (e *Engine) RelativeLuminance(c Color) (float64, error) {
	return e.luminance.get(c.Canonical(), func() (float64, error) {
		rgb, err := e.HexToRGB(c)
		if err != nil {
			return 0, err
		}
		return relativeLuminance(rgb), nil
	})
}

// relativeLuminance calculates the relative luminance of an RGB color
// according to WCAG 2.0.
func relativeLuminance(rgb RGB) float64 {
	r := linearize(rgb.R)
	g := linearize(rgb.G)
	b := linearize(rgb.B)
	return luminanceRed*r + luminanceGreen*g + luminanceBlue*b
}

// linearize applies sRGB gamma correction to an 8-bit channel.
func linearize(ch uint8) float64 {
	c := float64(ch) / 255
	if c <= srgbLinearThreshold {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// PerceivedLuminance returns the fast 0.299R + 0.587G + 0.114B approximation
// in [0,255]. It classifies brightness only and must not feed contrast ratios.
func (e *Engine) PerceivedLuminance(c Color) (float64, error) {
	rgb, err := e.HexToRGB(c)
	if err != nil {
		return 0, err
	}
	return 0.299*float64(rgb.R) + 0.587*float64(rgb.G) + 0.114*float64(rgb.B), nil
}

// Brightness classifies c by perceived luminance.
func (e *Engine) Brightness(c Color) (Brightness, error) {
	p, err := e.PerceivedLuminance(c)
	if err != nil {
		return BrightnessDark, err
	}
	switch {
	case p < DarkThreshold:
		return BrightnessDark, nil
	case p >= BrightThreshold:
		return BrightnessBright, nil
	default:
		return BrightnessMedium, nil
	}
}
