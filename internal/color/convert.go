package color

import (
	"fmt"
	"math"
	"strconv"
)

// HexToRGB parses a #RRGGBB color into its channels. Results are cached by
// the input string.
func (e *Engine) HexToRGB(c Color) (RGB, error) {
	return e.rgb.get(c, func() (RGB, error) {
		return parseRGB(c)
	})
}

func parseRGB(c Color) (RGB, error) {
	s := string(c)
	if !IsValidHexColor(s) {
		return RGB{}, fmt.Errorf("%w: got %q", ErrInvalidColorFormat, s)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %v", ErrInvalidColorFormat, err)
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// RGBToHex formats channels as a lowercase #rrggbb color. Each channel must
// be within [0,255].
func RGBToHex(r, g, b int) (Color, error) {
	for _, v := range [...]int{r, g, b} {
		if v < 0 || v > 255 {
			return "", fmt.Errorf("%w: channel %d not in [0,255]", ErrInvalidComponentRange, v)
		}
	}
	return Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), nil
}

// Hex returns the canonical color for an RGB value.
func (rgb RGB) Hex() Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B))
}

// HexToHSV converts a color to HSV. Hue is 0 for achromatic colors.
func (e *Engine) HexToHSV(c Color) (HSV, error) {
	return e.hsv.get(c, func() (HSV, error) {
		rgb, err := e.HexToRGB(c)
		if err != nil {
			return HSV{}, err
		}
		return rgbToHSV(rgb), nil
	})
}

func rgbToHSV(rgb RGB) HSV {
	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case maxC == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	var s float64
	if maxC > 0 {
		s = delta / maxC
	}

	return HSV{H: h, S: s, V: maxC}
}

// HSVToHex converts an HSV triple to a color. h must be in [0,360] (360 wraps
// to 0) and s, v in [0,1].
func HSVToHex(h, s, v float64) (Color, error) {
	if !(h >= 0 && h <= 360) {
		return "", fmt.Errorf("%w: hue %v not in [0,360]", ErrInvalidComponentRange, h)
	}
	if !(s >= 0 && s <= 1) {
		return "", fmt.Errorf("%w: saturation %v not in [0,1]", ErrInvalidComponentRange, s)
	}
	if !(v >= 0 && v <= 1) {
		return "", fmt.Errorf("%w: value %v not in [0,1]", ErrInvalidComponentRange, v)
	}
	if h == 360 {
		h = 0
	}

	c := v * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := v - c
	return RGBToHex(toChannel(r+m), toChannel(g+m), toChannel(b+m))
}

// toChannel scales a [0,1] component to [0,255], clamping float drift.
func toChannel(f float64) int {
	v := int(math.Round(f * 255))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
