package audit

import (
	"errors"
	"fmt"

	"github.com/onnwee/themecontrast/internal/adjust"
	"github.com/onnwee/themecontrast/internal/color"
)

// ErrMissingColor is returned when a required theme key is absent.
var ErrMissingColor = errors.New("required color missing")

// Theme keys read by the audit.
const (
	KeyForeground = "foreground"
	KeyBackground = "background"
	KeyCursor     = "cursorColor"
	KeySelection  = "selectionBackground"
)

// ConsoleSlots lists the 16 ANSI palette keys, as named by Windows Terminal
// color schemes, in the order their checks are emitted.
var ConsoleSlots = []string{
	"black", "red", "green", "yellow", "blue", "purple", "cyan", "white",
	"brightBlack", "brightRed", "brightGreen", "brightYellow",
	"brightBlue", "brightPurple", "brightCyan", "brightWhite",
}

// slotAliases maps a console slot to the alternate key accepted for it.
// The primary name wins when a theme sets both.
var slotAliases = map[string]string{
	"purple":       "magenta",
	"brightPurple": "brightMagenta",
}

// lookupSlot returns the key and raw value used for slot, or ok=false when
// neither the slot nor its alias carries a color.
func lookupSlot(colors map[string]string, slot string) (key, raw string, ok bool) {
	if raw := colors[slot]; raw != "" {
		return slot, raw, true
	}
	if alias, has := slotAliases[slot]; has {
		if raw := colors[alias]; raw != "" {
			return alias, raw, true
		}
	}
	return "", "", false
}

// Minimum ratios per category.
const (
	RequiredPrimary      = color.RatioAA
	RequiredUIComponent  = color.RatioAALarge
	RequiredConsoleColor = color.RatioAA
)

// Auditor runs theme audits against a shared color engine.
// It is safe for concurrent use.
type Auditor struct {
	engine   *color.Engine
	searcher *adjust.Searcher
	metrics  *Metrics
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithMetrics records audit outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(a *Auditor) {
		a.metrics = m
	}
}

// NewAuditor creates an Auditor backed by engine.
func NewAuditor(engine *color.Engine, opts ...Option) *Auditor {
	a := &Auditor{
		engine:   engine,
		searcher: adjust.NewSearcher(engine),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit checks the colors of one theme. Optional keys fall back to
// foreground (cursor) and background (selection); absent console slots are
// skipped. A malformed color aborts the audit with the color package's error
// wrapped with the offending key.
func (a *Auditor) Audit(name, source string, colors map[string]string) (*Result, error) {
	result, err := a.audit(name, source, colors)
	if err != nil {
		a.metrics.recordAudit(OutcomeError)
		return nil, err
	}

	if result.OverallPass {
		a.metrics.recordAudit(OutcomePass)
	} else {
		a.metrics.recordAudit(OutcomeFail)
	}
	for _, c := range result.Checks {
		if !c.Pass {
			a.metrics.recordFailedCheck(c.Category)
		}
	}
	return result, nil
}

func (a *Auditor) audit(name, source string, colors map[string]string) (*Result, error) {
	fg, err := required(colors, KeyForeground)
	if err != nil {
		return nil, err
	}
	bg, err := required(colors, KeyBackground)
	if err != nil {
		return nil, err
	}
	cursor, err := optional(colors, KeyCursor, fg)
	if err != nil {
		return nil, err
	}
	selection, err := optional(colors, KeySelection, bg)
	if err != nil {
		return nil, err
	}

	pairs := []struct {
		desc     string
		key      string
		fg, bg   color.Color
		required float64
		category Category
	}{
		{"foreground on background", KeyForeground, fg, bg, RequiredPrimary, CategoryPrimary},
		{"cursor on background", KeyCursor, cursor, bg, RequiredUIComponent, CategoryUIComponent},
		{"foreground on selection", KeyForeground, fg, selection, RequiredPrimary, CategoryPrimary},
	}

	checks := make([]Check, 0, len(pairs)+len(ConsoleSlots))
	for _, p := range pairs {
		c, err := a.check(p.desc, p.key, p.fg, p.bg, p.required, p.category)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}

	for _, slot := range ConsoleSlots {
		key, raw, ok := lookupSlot(colors, slot)
		if !ok {
			continue
		}
		slotColor, err := parse(key, raw)
		if err != nil {
			return nil, err
		}
		c, err := a.check(key+" on background", key, slotColor, bg, RequiredConsoleColor, CategoryConsoleColor)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}

	return newResult(name, source, checks), nil
}

func (a *Auditor) check(desc, key string, fg, bg color.Color, req float64, cat Category) (Check, error) {
	ratio, err := a.engine.ContrastRatio(fg, bg)
	if err != nil {
		return Check{}, fmt.Errorf("%s: %w", desc, err)
	}
	return Check{
		Description: desc,
		Key:         key,
		Foreground:  fg,
		Background:  bg,
		Ratio:       color.RoundRatio(ratio),
		Required:    req,
		Pass:        ratio >= req,
		Category:    cat,
		Level:       color.LevelFor(ratio),
	}, nil
}

// Suggest searches for a replacement foreground for every failing check of
// result. Checks for which the search finds no improvement are omitted.
func (a *Auditor) Suggest(result *Result) ([]Fix, error) {
	var fixes []Fix
	for _, c := range result.Failed() {
		s, err := a.searcher.Search(c.Foreground, c.Background, c.Required)
		if err != nil {
			return nil, fmt.Errorf("suggest %s: %w", c.Description, err)
		}
		if s == nil {
			continue
		}
		fixes = append(fixes, Fix{Check: c, Suggestion: *s})
	}
	return fixes, nil
}

func parse(key, raw string) (color.Color, error) {
	c, err := color.ParseColor(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}

func required(colors map[string]string, key string) (color.Color, error) {
	raw, ok := colors[key]
	if !ok || raw == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingColor, key)
	}
	return parse(key, raw)
}

func optional(colors map[string]string, key string, fallback color.Color) (color.Color, error) {
	raw, ok := colors[key]
	if !ok || raw == "" {
		return fallback, nil
	}
	return parse(key, raw)
}
