package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/horizonweb/horizon-chat/internal/chat"
	"github.com/horizonweb/horizon-chat/internal/identity"
)

// WSHandler serves the chat pipeline over a WebSocket, for embedded chat
// widgets that keep one connection open instead of posting per message.
type WSHandler struct {
	svc           *chat.Service
	allowedOrigin string
	isDev         bool
}

// NewWSHandler creates the WebSocket chat handler.
func NewWSHandler(svc *chat.Service, allowedOrigin string, isDev bool) *WSHandler {
	return &WSHandler{svc: svc, allowedOrigin: allowedOrigin, isDev: isDev}
}

type wsRequest struct {
	Message string `json:"message"`
}

// ServeHTTP upgrades the connection and answers each message through the
// same pipeline as POST /chat. The session key is derived from the handshake
// request itself (header, cookie, then remote IP) since a cookie minted on
// the upgrade response is not reliably stored by WS clients.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	sessionID := identity.ConnectionKey(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.isDev,
	})
	if err != nil {
		slog.Warn("WebSocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxRequestBodySize)

	slog.Info("WebSocket chat connected", "session_id", sessionID, "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return
			}
			slog.Debug("WebSocket read ended", "session_id", sessionID, "error", err)
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if writeErr := h.write(ctx, conn, map[string]interface{}{"ok": false, "error": "invalid message"}); writeErr != nil {
				return
			}
			continue
		}

		res := h.svc.Handle(ctx, sessionID, req.Message, time.Now())
		resp := chatResponse{
			OK:        true,
			SessionID: res.SessionID,
			Reply:     replyBody{Text: res.Text},
			Usage:     res.Usage,
		}
		if !res.Blocked {
			resp.Intent = string(res.Intent)
		}
		if err := h.write(ctx, conn, resp); err != nil {
			slog.Debug("WebSocket write failed", "session_id", sessionID, "error", err)
			return
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.EqualFold(origin, h.allowedOrigin)
}
