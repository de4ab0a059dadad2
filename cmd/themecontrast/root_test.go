package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/report"
	"github.com/onnwee/themecontrast/internal/theme"
)

const (
	passingTheme = `name: midnight
colors:
  foreground: "#ffffff"
  background: "#000000"
`
	failingTheme = `name: washed
colors:
  foreground: "#777777"
  background: "#ffffff"
`
)

// execute runs the root command with args and returns captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("THEMECONTRAST_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeTheme(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write theme: %v", err)
	}
	return path
}

func TestContrastCmd(t *testing.T) {
	out, err := execute(t, "contrast", "#777777", "#FFFFFF")
	if err != nil {
		t.Fatalf("contrast error = %v", err)
	}
	want := "#777777 on #ffffff: 4.48:1 (AA-large)\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestContrastCmd_InvalidColor(t *testing.T) {
	_, err := execute(t, "contrast", "red", "#ffffff")
	if !errors.Is(err, color.ErrInvalidColorFormat) {
		t.Fatalf("error = %v, want ErrInvalidColorFormat", err)
	}
	if !strings.HasPrefix(err.Error(), "foreground:") {
		t.Errorf("error = %q, want foreground prefix", err)
	}
}

func TestContrastCmd_Args(t *testing.T) {
	if _, err := execute(t, "contrast", "#ffffff"); err == nil {
		t.Fatal("expected an error for a single argument")
	}
}

func TestSuggestCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "darkens on light background",
			args: []string{"suggest", "#777777", "#ffffff"},
			want: "darken",
		},
		{
			name: "already passing",
			args: []string{"suggest", "#000000", "#ffffff"},
			want: "already meets",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("suggest error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestSuggestCmd_InvalidTarget(t *testing.T) {
	_, err := execute(t, "suggest", "#777777", "#ffffff", "--target", "30")
	if !errors.Is(err, color.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestAuditCmd_Passing(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "midnight.yaml", passingTheme)

	out, err := execute(t, "audit", dir)
	if err != nil {
		t.Fatalf("audit error = %v", err)
	}
	if !strings.Contains(out, "midnight") {
		t.Errorf("report does not mention the theme:\n%s", out)
	}
}

func TestAuditCmd_FailingExitCode(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "midnight.yaml", passingTheme)
	writeTheme(t, dir, "washed.yaml", failingTheme)

	_, err := execute(t, "audit", dir)
	if !errors.Is(err, errThemesFailed) {
		t.Fatalf("error = %v, want errThemesFailed", err)
	}

	if _, err := execute(t, "audit", dir, "--no-fail"); err != nil {
		t.Fatalf("audit --no-fail error = %v", err)
	}
}

func TestAuditCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "a.yaml", passingTheme)
	writeTheme(t, dir, "b.yaml", failingTheme)

	out, err := execute(t, "audit", dir, "--format", "json", "--suggest", "--no-fail", "--workers", "2")
	if err != nil {
		t.Fatalf("audit error = %v", err)
	}

	var doc report.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("failed to decode report: %v\n%s", err, out)
	}
	if doc.Summary.Themes != 2 || doc.Summary.Passed != 1 || doc.Summary.Failed != 1 {
		t.Errorf("summary = %+v", doc.Summary)
	}
	if len(doc.Themes) != 2 {
		t.Fatalf("len(Themes) = %d, want 2", len(doc.Themes))
	}
	if doc.Themes[0].Name != "midnight" || doc.Themes[1].Name != "washed" {
		t.Errorf("theme order = %q, %q", doc.Themes[0].Name, doc.Themes[1].Name)
	}
	if len(doc.Themes[1].Fixes) == 0 {
		t.Error("expected fixes for the failing theme")
	}
}

func TestAuditCmd_CBORRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "midnight.yaml", passingTheme)

	if _, err := execute(t, "audit", dir, "--format", "cbor"); err == nil {
		t.Fatal("expected an error writing CBOR to stdout")
	}

	outPath := filepath.Join(dir, "report.cbor")
	if _, err := execute(t, "audit", filepath.Join(dir, "midnight.yaml"), "--format", "cbor", "-o", outPath); err != nil {
		t.Fatalf("audit error = %v", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}
}

func TestAuditCmd_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "midnight.yaml", passingTheme)

	_, err := execute(t, "audit", dir, "--format", "xml")
	if !errors.Is(err, report.ErrUnknownFormat) {
		t.Fatalf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestAuditCmd_MetricsOut(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "washed.yaml", failingTheme)
	metricsPath := filepath.Join(dir, "audit.prom")

	if _, err := execute(t, "audit", dir, "--no-fail", "--metrics-out", metricsPath); err != nil {
		t.Fatalf("audit error = %v", err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics not written: %v", err)
	}
	for _, name := range []string{"theme_audits_total", "theme_batch_jobs_total"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("metrics file missing %s", name)
		}
	}
}

func TestFixCmd(t *testing.T) {
	dir := t.TempDir()
	src := writeTheme(t, dir, "washed.yaml", failingTheme)
	dst := filepath.Join(dir, "washed.fixed.yaml")

	if _, err := execute(t, "fix", src, "-o", dst); err != nil {
		t.Fatalf("fix error = %v", err)
	}

	fixed, err := theme.Load(dst)
	if err != nil {
		t.Fatalf("failed to load fixed theme: %v", err)
	}
	if fixed.Name != "washed" {
		t.Errorf("Name = %q, want washed", fixed.Name)
	}
	if fixed.Colors["foreground"] == "#777777" {
		t.Error("foreground was not adjusted")
	}
	if fixed.Colors["background"] != "#ffffff" {
		t.Errorf("background = %q, want unchanged", fixed.Colors["background"])
	}

	if _, err := execute(t, "audit", dst); err != nil {
		t.Errorf("fixed theme still fails: %v", err)
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Setenv("THEMECONTRAST_WORKERS", "0")
	if _, err := execute(t, "contrast", "#000000", "#ffffff"); err == nil {
		t.Fatal("expected a configuration error")
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "themecontrast version "+version) {
		t.Errorf("output = %q", out)
	}
}

// newTestApp initializes an app the way the root pre-run does.
func newTestApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("THEMECONTRAST_LOG_LEVEL", "error")

	a := &app{}
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "", "")
	cmd.SetErr(io.Discard)
	if err := a.setup(cmd); err != nil {
		t.Fatalf("setup error = %v", err)
	}
	return a
}

func TestNewHandler(t *testing.T) {
	a := newTestApp(t)
	handler, err := a.newHandler()
	if err != nil {
		t.Fatalf("newHandler error = %v", err)
	}

	body := strings.NewReader(`{"foreground":"#777777","background":"#ffffff"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contrast", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /contrast status = %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	for _, name := range []string{"http_requests_total", "go_goroutines"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestNewHandler_MetricsDisabled(t *testing.T) {
	a := newTestApp(t)
	a.cfg.MetricsEnabled = false

	handler, err := a.newHandler()
	if err != nil {
		t.Fatalf("newHandler error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want 404", rec.Code)
	}
}
