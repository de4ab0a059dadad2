package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/theme"
)

func newFixCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fix <theme>",
		Short: "Write a copy of a theme with suggested fixes applied",
		Long: `Audit a single theme, apply the suggested foreground for each failing
check, and write the patched theme as YAML. Keys without a suggestion keep
their original color.`,
		Example: `  themecontrast fix dracula.yaml -o dracula.fixed.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := theme.Load(args[0])
			if err != nil {
				return err
			}

			result, err := a.auditor.Audit(t.Name, t.Source, t.Colors)
			if err != nil {
				return err
			}
			fixes, err := a.auditor.Suggest(result)
			if err != nil {
				return err
			}
			patched := theme.Apply(t, fixes)

			a.logger.Info("theme fixed",
				"theme", t.Name,
				"failures", result.FailureCount,
				"fixes", len(fixes),
			)

			if output == "" {
				return theme.Write(cmd.OutOrStdout(), patched)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := theme.Write(f, patched); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the fixed theme to a file instead of stdout")
	return cmd
}
