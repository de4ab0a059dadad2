package color

import (
	"encoding/json"
	"fmt"
	"math"
)

// WCAG 2.0 contrast thresholds.
const (
	RatioAALarge = 3.0
	RatioAA      = 4.5
	RatioAAA     = 7.0

	MinRatio = 1.0
	MaxRatio = 21.0
)

// ContrastRatio calculates the WCAG contrast ratio between two colors.
// Returns a value between 1.0 (no contrast) and 21.0 (maximum contrast).
// The result does not depend on argument order.
func (e *Engine) ContrastRatio(a, b Color) (float64, error) {
	key := newPairKey(a.Canonical(), b.Canonical())
	return e.contrast.get(key, func() (float64, error) {
		l1, err := e.RelativeLuminance(key.lo)
		if err != nil {
			return 0, err
		}
		l2, err := e.RelativeLuminance(key.hi)
		if err != nil {
			return 0, err
		}

		// Ensure l1 is the lighter color
		if l1 < l2 {
			l1, l2 = l2, l1
		}
		return (l1 + 0.05) / (l2 + 0.05), nil
	})
}

// RoundRatio rounds a ratio to two decimals for reporting.
func RoundRatio(r float64) float64 {
	return math.Round(r*100) / 100
}

// Level is the highest WCAG conformance level a ratio satisfies for normal text.
type Level int

const (
	LevelFail Level = iota
	LevelAALarge
	LevelAA
	LevelAAA
)

// LevelFor classifies a contrast ratio.
func LevelFor(ratio float64) Level {
	switch {
	case ratio >= RatioAAA:
		return LevelAAA
	case ratio >= RatioAA:
		return LevelAA
	case ratio >= RatioAALarge:
		return LevelAALarge
	default:
		return LevelFail
	}
}

func (l Level) String() string {
	switch l {
	case LevelFail:
		return "fail"
	case LevelAALarge:
		return "AA-large"
	case LevelAA:
		return "AA"
	case LevelAAA:
		return "AAA"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the level by name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level name written by MarshalJSON.
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, candidate := range []Level{LevelFail, LevelAALarge, LevelAA, LevelAAA} {
		if candidate.String() == s {
			*l = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: unknown level %q", ErrInvalidArgument, s)
}
