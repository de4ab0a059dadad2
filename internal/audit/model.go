// Package audit checks the color pairs of a terminal theme against WCAG 2.0
// contrast requirements and proposes replacement colors for failing pairs.
package audit

import (
	"fmt"

	"github.com/onnwee/themecontrast/internal/adjust"
	"github.com/onnwee/themecontrast/internal/color"
)

// Category groups checks by what the foreground color is used for.
type Category int

const (
	CategoryPrimary Category = iota
	CategoryUIComponent
	CategoryConsoleColor
)

func (c Category) String() string {
	switch c {
	case CategoryPrimary:
		return "primary"
	case CategoryUIComponent:
		return "ui_component"
	case CategoryConsoleColor:
		return "console_color"
	default:
		return "unknown"
	}
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	switch string(b) {
	case "primary":
		*c = CategoryPrimary
	case "ui_component":
		*c = CategoryUIComponent
	case "console_color":
		*c = CategoryConsoleColor
	default:
		return fmt.Errorf("unknown category %q", b)
	}
	return nil
}

// Check is the outcome of one foreground/background comparison.
type Check struct {
	Description string      `json:"description"`
	Key         string      `json:"key"` // theme key of the foreground
	Foreground  color.Color `json:"foreground"`
	Background  color.Color `json:"background"`
	Ratio       float64     `json:"ratio"` // rounded to two decimals
	Required    float64     `json:"required"`
	Pass        bool        `json:"pass"`
	Category    Category    `json:"category"`
	Level       color.Level `json:"level"` // from the unrounded ratio
}

// Result is the audit of a single theme.
type Result struct {
	ThemeName    string  `json:"theme_name"`
	Source       string  `json:"source,omitempty"`
	OverallPass  bool    `json:"overall_pass"`
	Checks       []Check `json:"checks"`
	FailureCount int     `json:"failure_count"`
	PassCount    int     `json:"pass_count"`
}

// newResult derives the aggregate fields from checks.
func newResult(name, source string, checks []Check) *Result {
	r := &Result{
		ThemeName: name,
		Source:    source,
		Checks:    checks,
	}
	for _, c := range checks {
		if c.Pass {
			r.PassCount++
		} else {
			r.FailureCount++
		}
	}
	r.OverallPass = r.FailureCount == 0
	return r
}

// Failed returns the failing checks in audit order.
func (r *Result) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Pass {
			failed = append(failed, c)
		}
	}
	return failed
}

// Fix pairs a failing check with a replacement foreground.
type Fix struct {
	Check      Check             `json:"check"`
	Suggestion adjust.Suggestion `json:"suggestion"`
}
