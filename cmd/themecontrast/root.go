package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/config"
	"github.com/onnwee/themecontrast/internal/middleware"
)

// errThemesFailed is returned by audit when a theme fails; the report has
// already been printed, so main only sets the exit code.
var errThemesFailed = errors.New("one or more themes failed the contrast audit")

// app holds state shared by subcommands after the root pre-run.
type app struct {
	configPath string
	logLevel   string

	cfg          *config.Config
	logger       *slog.Logger
	engine       *color.Engine
	colorMetrics *color.Metrics
	auditMetrics *audit.Metrics
	auditor      *audit.Auditor
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "themecontrast",
		Short: "Audit color themes for WCAG contrast",
		Long: `themecontrast checks the foreground, cursor, selection and ANSI palette
colors of a theme against its background using WCAG 2.0 contrast ratios,
and suggests lighter or darker foregrounds for pairs that fall short.

Quick start:
  themecontrast audit themes/              # Audit every theme in a directory
  themecontrast contrast "#777" "#fff"     # Ratio of a single pair
  themecontrast suggest "#777777" "#ffffff" --target 7
  themecontrast fix dracula.yaml -o dracula.fixed.yaml
  themecontrast serve --port 8080          # HTTP and websocket API`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetVersionTemplate(`{{printf "themecontrast version %s\n" .Version}}`)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newAuditCmd(a))
	cmd.AddCommand(newContrastCmd(a))
	cmd.AddCommand(newSuggestCmd(a))
	cmd.AddCommand(newFixCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

// setup loads configuration and builds the logger and audit core.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, errs := config.Load(a.configPath)
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.logger = middleware.NewLogger(cmd.ErrOrStderr(), cfg.Env, cfg.LogLevel)
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded", "config", cfg.LogSummary())

	a.colorMetrics = color.NewMetrics()
	a.auditMetrics = audit.NewMetrics()
	a.engine = color.NewEngine(color.WithMetrics(a.colorMetrics))
	a.auditor = audit.NewAuditor(a.engine, audit.WithMetrics(a.auditMetrics))
	return nil
}
