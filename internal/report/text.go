package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette for the terminal renderer.
var (
	passColor   = lipgloss.Color("10")
	failColor   = lipgloss.Color("9")
	mutedColor  = lipgloss.Color("8")
	accentColor = lipgloss.Color("12")
)

type textStyles struct {
	title  lipgloss.Style
	source lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	fix    lipgloss.Style
	r      *lipgloss.Renderer
}

// newTextStyles binds styles to a renderer for w, so color escapes are only
// emitted when w is a terminal.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(accentColor),
		source: r.NewStyle().Foreground(mutedColor).Italic(true),
		pass:   r.NewStyle().Bold(true).Foreground(passColor),
		fail:   r.NewStyle().Bold(true).Foreground(failColor),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(mutedColor),
		fix:    r.NewStyle().Foreground(accentColor),
		r:      r,
	}
}

// swatch renders sample text in fg on bg.
func (s textStyles) swatch(fg, bg string) string {
	return s.r.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Render(" Aa ")
}

func (s textStyles) status(pass bool) string {
	if pass {
		return s.pass.Render(status(true))
	}
	return s.fail.Render(status(false))
}

func renderText(w io.Writer, entries []Entry) error {
	st := newTextStyles(w)

	for _, e := range entries {
		r := e.Result
		heading := st.title.Render(r.ThemeName) + "  " + st.status(r.OverallPass)
		if r.Source != "" {
			heading += "  " + st.source.Render(r.Source)
		}
		if _, err := fmt.Fprintln(w, heading); err != nil {
			return err
		}

		rows := make([][]string, 0, len(r.Checks))
		for _, c := range r.Checks {
			rows = append(rows, []string{
				c.Description,
				st.swatch(c.Foreground.String(), c.Background.String()),
				fmt.Sprintf("%.2f:1", c.Ratio),
				fmt.Sprintf("%.1f:1", c.Required),
				c.Level.String(),
				st.status(c.Pass),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(st.border).
			Headers("CHECK", "SAMPLE", "RATIO", "REQUIRED", "LEVEL", "STATUS").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return st.header
				}
				return st.cell
			}).
			Rows(rows...)

		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}

		for _, f := range e.Fixes {
			line := fmt.Sprintf("  fix %s: %s", f.Check.Key, f.Suggestion)
			if _, err := fmt.Fprintln(w, st.fix.Render(line)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %d passed, %d failed\n\n", r.PassCount, r.FailureCount); err != nil {
			return err
		}
	}

	sum := Summarize(entries)
	_, err := fmt.Fprintf(w, "%d themes: %d passed, %d failed (%d of %d checks failing, %d fixes)\n",
		sum.Themes, sum.Passed, sum.Failed, sum.FailedChecks, sum.Checks, sum.Fixes)
	return err
}
