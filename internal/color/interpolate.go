package color

import (
	"fmt"
	"math"
)

// GrayscaleSaturationThreshold is the HSV saturation below which a color is
// treated as gray.
const GrayscaleSaturationThreshold = 0.1

func checkFraction(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: %s %v not in [0,1]", ErrInvalidArgument, name, p)
	}
	return nil
}

// Lighten moves each channel toward 255 by fraction p. Lighten(c, 0) is c and
// Lighten(c, 1) is white.
func (e *Engine) Lighten(c Color, p float64) (Color, error) {
	if err := checkFraction("percentage", p); err != nil {
		return "", err
	}
	rgb, err := e.HexToRGB(c)
	if err != nil {
		return "", err
	}
	return mapChannels(rgb, func(ch float64) float64 {
		return ch + (255-ch)*p
	}), nil
}

// Darken moves each channel toward 0 by fraction p. Darken(c, 0) is c and
// Darken(c, 1) is black.
func (e *Engine) Darken(c Color, p float64) (Color, error) {
	if err := checkFraction("percentage", p); err != nil {
		return "", err
	}
	rgb, err := e.HexToRGB(c)
	if err != nil {
		return "", err
	}
	return mapChannels(rgb, func(ch float64) float64 {
		return ch * (1 - p)
	}), nil
}

// Blend interpolates each channel from c1 to c2. A ratio of 0 returns c1 and
// a ratio of 1 returns c2.
func (e *Engine) Blend(c1, c2 Color, ratio float64) (Color, error) {
	if err := checkFraction("ratio", ratio); err != nil {
		return "", err
	}
	a, err := e.HexToRGB(c1)
	if err != nil {
		return "", err
	}
	b, err := e.HexToRGB(c2)
	if err != nil {
		return "", err
	}

	mix := func(x, y uint8) uint8 {
		fx, fy := float64(x), float64(y)
		return uint8(math.Round(fx + (fy-fx)*ratio))
	}
	return RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}.Hex(), nil
}

// Saturate increases HSV saturation by amount, clamped to 1.
func (e *Engine) Saturate(c Color, amount float64) (Color, error) {
	return e.shiftSaturation(c, amount)
}

// Desaturate decreases HSV saturation by amount, clamped to 0.
func (e *Engine) Desaturate(c Color, amount float64) (Color, error) {
	return e.shiftSaturation(c, -amount)
}

func (e *Engine) shiftSaturation(c Color, delta float64) (Color, error) {
	if err := checkFraction("amount", math.Abs(delta)); err != nil {
		return "", err
	}
	hsv, err := e.HexToHSV(c)
	if err != nil {
		return "", err
	}
	s := math.Min(1, math.Max(0, hsv.S+delta))
	return HSVToHex(hsv.H, s, hsv.V)
}

// IsGrayscale reports whether c has negligible saturation.
func (e *Engine) IsGrayscale(c Color) (bool, error) {
	hsv, err := e.HexToHSV(c)
	if err != nil {
		return false, err
	}
	return hsv.S < GrayscaleSaturationThreshold, nil
}

func mapChannels(rgb RGB, f func(float64) float64) Color {
	ch := func(v uint8) uint8 {
		return uint8(math.Round(f(float64(v))))
	}
	return RGB{R: ch(rgb.R), G: ch(rgb.G), B: ch(rgb.B)}.Hex()
}
