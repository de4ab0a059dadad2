package report

import (
	"fmt"
	"io"
	"strings"
)

func renderMarkdown(w io.Writer, entries []Entry) error {
	var b strings.Builder

	sum := Summarize(entries)
	b.WriteString("# Theme Contrast Report\n\n")
	fmt.Fprintf(&b, "%d themes audited: %d passed, %d failed.\n\n", sum.Themes, sum.Passed, sum.Failed)

	b.WriteString("| Theme | Status | Passed | Failed |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, e := range entries {
		r := e.Result
		fmt.Fprintf(&b, "| %s | %s | %d | %d |\n",
			escapeCell(r.ThemeName), status(r.OverallPass), r.PassCount, r.FailureCount)
	}

	for _, e := range entries {
		r := e.Result
		fmt.Fprintf(&b, "\n## %s\n\n", r.ThemeName)
		if r.Source != "" {
			fmt.Fprintf(&b, "Source: `%s`\n\n", r.Source)
		}

		b.WriteString("| Check | Foreground | Background | Ratio | Required | Level | Status |\n")
		b.WriteString("|---|---|---|---:|---:|---|---|\n")
		for _, c := range r.Checks {
			fmt.Fprintf(&b, "| %s | `%s` | `%s` | %.2f:1 | %.1f:1 | %s | %s |\n",
				escapeCell(c.Description), c.Foreground, c.Background,
				c.Ratio, c.Required, c.Level, status(c.Pass))
		}

		if len(e.Fixes) == 0 {
			continue
		}
		b.WriteString("\n### Suggested fixes\n\n")
		for _, f := range e.Fixes {
			s := f.Suggestion
			fmt.Fprintf(&b, "- `%s`: `%s` → `%s` (%s, %.2f:1 → %.2f:1)\n",
				f.Check.Key, s.Original, s.Suggested, s.Direction, s.OriginalRatio, s.NewRatio)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
