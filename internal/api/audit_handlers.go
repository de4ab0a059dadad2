package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/onnwee/themecontrast/internal/adjust"
	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/report"
	"github.com/onnwee/themecontrast/internal/tracing"
)

// MaxRequestBytes bounds request bodies and websocket messages.
const MaxRequestBytes = 64 << 10

// RequestSource is recorded as the Source of themes submitted over HTTP.
const RequestSource = "request"

// AuditRequest is the body of POST /audit and each /ws/audit message.
type AuditRequest struct {
	Name    string            `json:"name"`
	Colors  map[string]string `json:"colors"`
	Suggest bool              `json:"suggest"`
}

// ContrastRequest is the body of POST /contrast.
type ContrastRequest struct {
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// ContrastResponse reports the ratio of one pair.
type ContrastResponse struct {
	Foreground color.Color `json:"foreground"`
	Background color.Color `json:"background"`
	Ratio      float64     `json:"ratio"`
	Level      color.Level `json:"level"`
}

// SuggestRequest is the body of POST /suggest. Target defaults to 4.5.
type SuggestRequest struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Target     float64 `json:"target"`
}

// SuggestResponse carries the suggestion, or null when none improves the pair.
type SuggestResponse struct {
	Suggestion *adjust.Suggestion `json:"suggestion"`
}

// AuditHandlers serves the audit endpoints.
type AuditHandlers struct {
	engine   *color.Engine
	auditor  *audit.Auditor
	searcher *adjust.Searcher
}

// NewAuditHandlers creates handlers sharing engine with auditor.
func NewAuditHandlers(engine *color.Engine, auditor *audit.Auditor) *AuditHandlers {
	return &AuditHandlers{
		engine:   engine,
		auditor:  auditor,
		searcher: adjust.NewSearcher(engine),
	}
}

// Audit handles POST /audit.
func (h *AuditHandlers) Audit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req AuditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.runAudit(r, req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, r.Context(), entry)
}

// runAudit validates req and audits it inside a span.
func (h *AuditHandlers) runAudit(r *http.Request, req AuditRequest) (report.Entry, error) {
	if len(req.Colors) == 0 {
		return report.Entry{}, fmt.Errorf("%w: colors must not be empty", color.ErrInvalidArgument)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "untitled"
	}

	ctx, endSpan := tracing.StartSpan(r.Context(), "audit_theme",
		tracing.AttrThemeName.String(name),
		tracing.AttrThemeSource.String(RequestSource),
	)

	result, err := h.auditor.Audit(name, RequestSource, req.Colors)
	if err != nil {
		endSpan(err)
		return report.Entry{}, err
	}

	entry := report.Entry{Result: result}
	if req.Suggest && !result.OverallPass {
		if entry.Fixes, err = h.auditor.Suggest(result); err != nil {
			endSpan(err)
			return report.Entry{}, err
		}
	}

	tracing.RecordAudit(ctx, result.OverallPass, len(result.Checks), result.FailureCount, len(entry.Fixes))
	endSpan(nil)
	return entry, nil
}

// Contrast handles POST /contrast.
func (h *AuditHandlers) Contrast(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ContrastRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fg, bg, err := parsePair(req.Foreground, req.Background)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	ratio, err := h.engine.ContrastRatio(fg, bg)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), ContrastResponse{
		Foreground: fg,
		Background: bg,
		Ratio:      color.RoundRatio(ratio),
		Level:      color.LevelFor(ratio),
	})
}

// Suggest handles POST /suggest.
func (h *AuditHandlers) Suggest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req SuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Target == 0 {
		req.Target = color.RatioAA
	}

	fg, bg, err := parsePair(req.Foreground, req.Background)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	s, err := h.searcher.Search(fg, bg, req.Target)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, r.Context(), SuggestResponse{Suggestion: s})
}

func parsePair(fgRaw, bgRaw string) (color.Color, color.Color, error) {
	fg, err := color.ParseColor(fgRaw)
	if err != nil {
		return "", "", fmt.Errorf("foreground: %w", err)
	}
	bg, err := color.ParseColor(bgRaw)
	if err != nil {
		return "", "", fmt.Errorf("background: %w", err)
	}
	return fg, bg, nil
}

// decodeBody reads a single JSON object from the request body. It writes a
// bad_request envelope and returns false when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, MaxRequestBytes), v); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	return true
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected data after object")
	}
	return nil
}
