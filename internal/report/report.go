// Package report renders theme audit results as terminal text, markdown,
// JSON or CBOR.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/onnwee/themecontrast/internal/audit"
)

// ErrUnknownFormat is returned by ParseFormat for unrecognized names.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects a renderer.
type Format int

const (
	FormatText Format = iota
	FormatMarkdown
	FormatJSON
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name to a Format. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatCBOR
}

// Entry is one audited theme and the fixes proposed for it.
type Entry struct {
	Result *audit.Result `json:"result"`
	Fixes  []audit.Fix   `json:"fixes,omitempty"`
}

// Summary aggregates a set of entries.
type Summary struct {
	Themes       int `json:"themes" cbor:"themes"`
	Passed       int `json:"passed" cbor:"passed"`
	Failed       int `json:"failed" cbor:"failed"`
	Checks       int `json:"checks" cbor:"checks"`
	FailedChecks int `json:"failed_checks" cbor:"failed_checks"`
	Fixes        int `json:"fixes" cbor:"fixes"`
}

// Summarize counts themes and checks across entries.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Themes++
		if e.Result.OverallPass {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Checks += len(e.Result.Checks)
		s.FailedChecks += e.Result.FailureCount
		s.Fixes += len(e.Fixes)
	}
	return s
}

// Render writes entries to w in format f.
func Render(w io.Writer, f Format, entries []Entry) error {
	switch f {
	case FormatText:
		return renderText(w, entries)
	case FormatMarkdown:
		return renderMarkdown(w, entries)
	case FormatJSON:
		return renderJSON(w, entries)
	case FormatCBOR:
		return renderCBOR(w, entries)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
}

func status(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
