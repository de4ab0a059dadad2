// Package color provides the color-space model used by the contrast audit:
// hex, RGB and HSV conversions, WCAG relative luminance, contrast ratios and
// channel interpolation helpers. Expensive derivations are memoized by an
// Engine so that a process can share one cache across concurrent audits.
package color

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// hexColorPattern matches valid hex color codes in format #RRGGBB (case insensitive).
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Common validation errors
var (
	ErrInvalidColorFormat    = errors.New("invalid hex color format, expected #RRGGBB")
	ErrInvalidComponentRange = errors.New("color component out of range")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInsufficientContrast  = errors.New("insufficient contrast ratio, minimum 4.5:1 required for WCAG AA")
)

// Color is a hex-encoded sRGB color in #rrggbb form.
// Values produced by this package are always canonical (lowercase).
type Color string

// String returns the color as a plain string.
func (c Color) String() string {
	return string(c)
}

// Canonical returns the lowercase form of c without validating it.
func (c Color) Canonical() Color {
	return Color(strings.ToLower(string(c)))
}

// RGB represents a color in RGB color space with values 0-255.
type RGB struct {
	R, G, B uint8
}

// HSV represents a color in HSV space. H is in degrees [0,360), S and V are in [0,1].
type HSV struct {
	H, S, V float64
}

// IsValidHexColor validates that a color string is in valid #RRGGBB format.
func IsValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

// ParseColor validates s and returns its canonical lowercase form.
func ParseColor(s string) (Color, error) {
	if !IsValidHexColor(s) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidColorFormat, s)
	}
	return Color(strings.ToLower(s)), nil
}

// SanitizeColor sanitizes a color string to prevent script injection.
// Returns the canonical color if valid, or empty string if invalid.
func SanitizeColor(color string) string {
	sanitized := html.EscapeString(strings.TrimSpace(color))

	// Verify it's still a valid hex color after sanitization
	if !IsValidHexColor(sanitized) {
		return ""
	}

	return strings.ToLower(sanitized)
}

// ValidateHexColor validates a hex color and returns an error if invalid.
func ValidateHexColor(color string) error {
	if !IsValidHexColor(color) {
		return fmt.Errorf("%w: got %q", ErrInvalidColorFormat, color)
	}
	return nil
}

// ValidateContrast validates that two hex colors have sufficient contrast
// for WCAG AA compliance (minimum 4.5:1 ratio).
// Returns the calculated ratio and an error if insufficient.
func (e *Engine) ValidateContrast(textColor, bgColor Color) (float64, error) {
	if err := ValidateHexColor(string(textColor)); err != nil {
		return 0, fmt.Errorf("invalid text color: %w", err)
	}
	if err := ValidateHexColor(string(bgColor)); err != nil {
		return 0, fmt.Errorf("invalid background color: %w", err)
	}

	ratio, err := e.ContrastRatio(textColor, bgColor)
	if err != nil {
		return 0, err
	}

	if ratio < RatioAA {
		return ratio, fmt.Errorf("%w: got %.2f:1", ErrInsufficientContrast, ratio)
	}

	return ratio, nil
}
