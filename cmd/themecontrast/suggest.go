package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/adjust"
	"github.com/onnwee/themecontrast/internal/color"
)

func newSuggestCmd(a *app) *cobra.Command {
	var target float64

	cmd := &cobra.Command{
		Use:   "suggest <foreground> <background>",
		Short: "Suggest a foreground that reaches a target contrast ratio",
		Example: `  themecontrast suggest "#777777" "#ffffff"
  themecontrast suggest "#444444" "#000000" --target 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, bg, err := parsePair(args[0], args[1])
			if err != nil {
				return err
			}
			s, err := adjust.NewSearcher(a.engine).Search(fg, bg, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s == nil {
				ratio, err := a.engine.ContrastRatio(fg, bg)
				if err != nil {
					return err
				}
				if ratio >= target {
					fmt.Fprintf(out, "%s already meets %.2f:1 on %s (%.2f:1)\n",
						fg, target, bg, color.RoundRatio(ratio))
				} else {
					fmt.Fprintf(out, "no adjustment of %s improves contrast on %s\n", fg, bg)
				}
				return nil
			}

			fmt.Fprintln(out, s.String())
			if !s.MeetsTarget(target) {
				fmt.Fprintf(out, "best effort: target %.2f:1 not reached\n", target)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", color.RatioAA, "target contrast ratio")
	return cmd
}
