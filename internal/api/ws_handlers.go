package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/onnwee/themecontrast/internal/middleware"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// Websocket message outcomes.
const (
	wsDirectionIn  = "in"
	wsDirectionOut = "out"
	wsOutcomeOK    = "ok"
	wsOutcomeError = "error"
)

// AuditWebSocket streams audits: each text message is an AuditRequest and
// each reply is a report entry or an error envelope.
type AuditWebSocket struct {
	handlers *AuditHandlers
	metrics  *middleware.Metrics
	upgrader websocket.Upgrader
}

// NewAuditWebSocket creates the /ws/audit handler. Browser origins must be
// listed in allowedOrigins; requests without an Origin header are accepted.
func NewAuditWebSocket(handlers *AuditHandlers, metrics *middleware.Metrics, allowedOrigins []string) *AuditWebSocket {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return &AuditWebSocket{
		handlers: handlers,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin] || sameHost(origin, r.Host)
			},
		},
	}
}

func sameHost(origin, host string) bool {
	if i := strings.Index(origin, "://"); i != -1 {
		origin = origin[i+3:]
	}
	return strings.EqualFold(origin, host)
}

// ServeHTTP handles GET /ws/audit.
func (s *AuditWebSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.WarnContext(ctx, "failed to upgrade websocket connection", "error", err)
		return
	}

	requestID := middleware.GetRequestID(ctx)
	s.metrics.WebSocketOpened()
	slog.InfoContext(ctx, "websocket audit client connected", "request_id", requestID)

	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		s.metrics.WebSocketClosed()
		slog.InfoContext(ctx, "websocket audit client disconnected", "request_id", requestID)
	}()

	conn.SetReadLimit(MaxRequestBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Pings are written with WriteControl, which may run concurrently with
	// the reply writes below.
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket connection closed unexpectedly",
					"error", err,
					"request_id", requestID,
				)
			}
			return
		}
		if msgType != websocket.TextMessage {
			s.metrics.IncWebSocketMessages(wsDirectionIn, wsOutcomeError)
			if !s.reply(conn, ErrorResponse{Error: ErrorDetail{Code: ErrCodeBadRequest, Message: "expected a text message"}}) {
				return
			}
			continue
		}

		var req AuditRequest
		if err := decodeJSON(bytes.NewReader(data), &req); err != nil {
			s.metrics.IncWebSocketMessages(wsDirectionIn, wsOutcomeError)
			if !s.reply(conn, ErrorResponse{Error: ErrorDetail{Code: ErrCodeBadRequest, Message: err.Error()}}) {
				return
			}
			continue
		}

		entry, err := s.handlers.runAudit(r, req)
		if err != nil {
			s.metrics.IncWebSocketMessages(wsDirectionIn, wsOutcomeError)
			if ErrorCodeFor(err) == ErrCodeInternal {
				slog.ErrorContext(ctx, "websocket audit failed", "error", err, "request_id", requestID)
			}
			if !s.reply(conn, ErrorResponse{Error: errorDetailFor(err)}) {
				return
			}
			continue
		}

		s.metrics.IncWebSocketMessages(wsDirectionIn, wsOutcomeOK)
		if !s.reply(conn, entry) {
			return
		}
	}
}

// reply writes v as JSON. It returns false when the connection is unusable.
func (s *AuditWebSocket) reply(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(v); err != nil {
		s.metrics.IncWebSocketMessages(wsDirectionOut, wsOutcomeError)
		return false
	}
	s.metrics.IncWebSocketMessages(wsDirectionOut, wsOutcomeOK)
	return true
}
