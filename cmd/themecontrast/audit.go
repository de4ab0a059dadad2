package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/batch"
	"github.com/onnwee/themecontrast/internal/report"
	"github.com/onnwee/themecontrast/internal/theme"
)

type auditOptions struct {
	format     string
	suggest    bool
	workers    int
	output     string
	noFail     bool
	metricsOut string
}

func newAuditCmd(a *app) *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit [paths...]",
		Short: "Audit theme files or directories",
		Long: `Audit one or more theme files. Directories are scanned (non-recursively)
for .yaml, .yml and .json files. The command exits non-zero when any theme
fails unless --no-fail is set.`,
		Example: `  themecontrast audit themes/
  themecontrast audit dracula.yaml nord.json --suggest
  themecontrast audit themes/ --format json -o report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: text, markdown, json, cbor")
	cmd.Flags().BoolVar(&opts.suggest, "suggest", false, "include suggested fixes for failing checks")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of themes audited concurrently")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.noFail, "no-fail", false, "exit zero even when themes fail")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics in text format to a file")

	return cmd
}

func runAudit(cmd *cobra.Command, a *app, opts *auditOptions, args []string) error {
	formatName := a.cfg.Format
	if cmd.Flags().Changed("format") {
		formatName = opts.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	workers := a.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}
	if workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", workers)
	}

	suggest := a.cfg.Suggest
	if cmd.Flags().Changed("suggest") {
		suggest = opts.suggest
	}

	themes, err := theme.LoadAll(args)
	if err != nil {
		return err
	}

	batchMetrics := batch.NewMetrics()
	runner := batch.NewRunner(a.auditor,
		batch.WithWorkers(workers),
		batch.WithSuggest(suggest),
		batch.WithMetrics(batchMetrics),
		batch.WithLogger(a.logger),
	)

	entries, err := runner.Run(cmd.Context(), themes)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), opts.output, format, entries); err != nil {
		return err
	}

	if opts.metricsOut != "" {
		if err := a.writeMetrics(opts.metricsOut, batchMetrics); err != nil {
			return err
		}
	}

	summary := report.Summarize(entries)
	a.logger.Debug("audit finished",
		"themes", summary.Themes,
		"passed", summary.Passed,
		"failed", summary.Failed,
	)
	if summary.Failed > 0 && !opts.noFail {
		return errThemesFailed
	}
	return nil
}

// writeReport renders to path, or to stdout when path is empty.
// Binary formats are refused on stdout.
func writeReport(stdout io.Writer, path string, format report.Format, entries []report.Entry) error {
	if path == "" {
		if format.Binary() {
			return fmt.Errorf("format %s is binary; use --output to write it to a file", format)
		}
		return report.Render(stdout, format, entries)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.Render(f, format, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

// writeMetrics dumps color, audit and batch metrics for the node exporter
// textfile collector.
func (a *app) writeMetrics(path string, batchMetrics *batch.Metrics) error {
	reg := prometheus.NewRegistry()
	if err := a.colorMetrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register color metrics: %w", err)
	}
	if err := a.auditMetrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register audit metrics: %w", err)
	}
	if err := batchMetrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register batch metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
