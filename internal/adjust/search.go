// Package adjust searches for a minimal lightness change to a foreground color
// that restores the contrast required against its background.
package adjust

import (
	"fmt"

	"github.com/onnwee/themecontrast/internal/color"
)

// Search ladder parameters: step i applies a 5% * i lighten or darken.
const (
	LadderSteps = 20
	StepSize    = 0.05

	// darkBackgroundLuminance is the relative luminance below which the
	// background counts as dark and the foreground is lightened.
	darkBackgroundLuminance = 0.5
)

// Direction is the lightness axis the search moved along.
type Direction int

const (
	DirectionLighten Direction = iota
	DirectionDarken
)

func (d Direction) String() string {
	switch d {
	case DirectionLighten:
		return "lighten"
	case DirectionDarken:
		return "darken"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lighten":
		*d = DirectionLighten
	case "darken":
		*d = DirectionDarken
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Suggestion is a replacement foreground color with a strictly better ratio.
type Suggestion struct {
	Original      color.Color `json:"original" cbor:"original"`
	Suggested     color.Color `json:"suggested" cbor:"suggested"`
	OriginalRatio float64     `json:"original_ratio" cbor:"original_ratio"`
	NewRatio      float64     `json:"new_ratio" cbor:"new_ratio"`
	Direction     Direction   `json:"direction" cbor:"direction"`
}

// MeetsTarget reports whether the suggestion reaches ratio.
func (s Suggestion) MeetsTarget(ratio float64) bool {
	return s.NewRatio >= ratio
}

// String implements fmt.Stringer.
func (s Suggestion) String() string {
	return fmt.Sprintf("%s -> %s (%s, %.2f:1 -> %.2f:1)",
		s.Original, s.Suggested, s.Direction, s.OriginalRatio, s.NewRatio)
}

// Searcher runs the ladder search against a shared color engine.
type Searcher struct {
	engine *color.Engine
}

// NewSearcher creates a Searcher using engine for all conversions.
func NewSearcher(engine *color.Engine) *Searcher {
	return &Searcher{engine: engine}
}

// Search looks for a lightened or darkened variant of fg that improves its
// contrast against bg, stopping at the first step that reaches target.
//
// It returns nil with no error when fg already meets target or when no step
// improves on the original ratio. Errors are returned only for invalid seed
// colors or a target outside [1,21].
func (s *Searcher) Search(fg, bg color.Color, target float64) (*Suggestion, error) {
	if !(target >= color.MinRatio && target <= color.MaxRatio) {
		return nil, fmt.Errorf("%w: target ratio %v not in [1,21]", color.ErrInvalidArgument, target)
	}

	original, err := s.engine.ContrastRatio(fg, bg)
	if err != nil {
		return nil, err
	}
	if original >= target {
		return nil, nil
	}

	bgLum, err := s.engine.RelativeLuminance(bg)
	if err != nil {
		return nil, err
	}

	dir := DirectionDarken
	step := s.engine.Darken
	if bgLum < darkBackgroundLuminance {
		dir = DirectionLighten
		step = s.engine.Lighten
	}

	bestRatio := original
	var bestColor color.Color

	for i := 1; i <= LadderSteps; i++ {
		candidate, err := step(fg, StepSize*float64(i))
		if err != nil {
			return nil, err
		}
		ratio, err := s.engine.ContrastRatio(candidate, bg)
		if err != nil {
			return nil, err
		}

		if ratio > bestRatio {
			bestRatio = ratio
			bestColor = candidate
		}
		if ratio >= target {
			break
		}
	}

	if bestColor == "" {
		return nil, nil
	}

	return &Suggestion{
		Original:      fg.Canonical(),
		Suggested:     bestColor,
		OriginalRatio: color.RoundRatio(original),
		NewRatio:      color.RoundRatio(bestRatio),
		Direction:     dir,
	}, nil
}
