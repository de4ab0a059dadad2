// Package api provides the HTTP and websocket surface of the theme contrast
// server and its standardized JSON error envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/onnwee/themecontrast/internal/audit"
	"github.com/onnwee/themecontrast/internal/color"
	"github.com/onnwee/themecontrast/internal/middleware"
)

// Common error codes used throughout the API.
const (
	// ErrCodeValidation indicates input validation failure.
	ErrCodeValidation = "validation_error"

	// ErrCodeInvalidColor indicates a color that is not #RRGGBB or a component out of range.
	ErrCodeInvalidColor = "invalid_color"

	// ErrCodeBadRequest indicates a malformed request.
	ErrCodeBadRequest = "bad_request"

	// ErrCodeNotFound indicates the requested route was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeMethodNotAllowed indicates the route exists for another method.
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
)

// ErrorResponse represents the standard error response format.
// All API errors return JSON in this structure: {"error": {"code": "...", "message": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response and records code for
// the request log line.
//
// Format: {"error": {"code": "error_code", "message": "Error description"}}
func WriteError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	ctx = middleware.SetErrorCode(ctx, code)

	data, err := json.Marshal(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal error response", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// StatusCodeMapping returns the recommended HTTP status code for an error code.
func StatusCodeMapping(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidColor, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeFor classifies an error from the audit core.
func ErrorCodeFor(err error) string {
	switch {
	case errors.Is(err, color.ErrInvalidColorFormat), errors.Is(err, color.ErrInvalidComponentRange):
		return ErrCodeInvalidColor
	case errors.Is(err, audit.ErrMissingColor), errors.Is(err, color.ErrInvalidArgument):
		return ErrCodeValidation
	default:
		return ErrCodeInternal
	}
}

// errorDetailFor builds the envelope for err. Internal errors get a generic
// message so implementation details stay out of responses.
func errorDetailFor(err error) ErrorDetail {
	code := ErrorCodeFor(err)
	if code == ErrCodeInternal {
		return ErrorDetail{Code: code, Message: "Internal server error"}
	}
	return ErrorDetail{Code: code, Message: err.Error()}
}

// writeCoreError maps err to an envelope and writes it.
func writeCoreError(w http.ResponseWriter, r *http.Request, err error) {
	detail := errorDetailFor(err)
	if detail.Code == ErrCodeInternal {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, r.Context(), StatusCodeMapping(detail.Code), detail.Code, detail.Message)
}

// writeJSON encodes v with status 200.
func writeJSON(w http.ResponseWriter, ctx context.Context, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// requireMethod writes a 405 envelope and returns false unless r uses method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	return false
}
