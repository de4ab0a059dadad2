package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/color"
)

func newContrastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "contrast <foreground> <background>",
		Short:   "Print the contrast ratio of a color pair",
		Example: `  themecontrast contrast "#777777" "#ffffff"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, bg, err := parsePair(args[0], args[1])
			if err != nil {
				return err
			}
			ratio, err := a.engine.ContrastRatio(fg, bg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %.2f:1 (%s)\n",
				fg, bg, color.RoundRatio(ratio), color.LevelFor(ratio))
			return nil
		},
	}
}

func parsePair(fgArg, bgArg string) (color.Color, color.Color, error) {
	fg, err := color.ParseColor(fgArg)
	if err != nil {
		return "", "", fmt.Errorf("foreground: %w", err)
	}
	bg, err := color.ParseColor(bgArg)
	if err != nil {
		return "", "", fmt.Errorf("background: %w", err)
	}
	return fg, bg, nil
}
