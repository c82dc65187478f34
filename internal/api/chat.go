package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/horizonweb/horizon-chat/internal/chat"
	"github.com/horizonweb/horizon-chat/internal/domain"
	"github.com/horizonweb/horizon-chat/internal/identity"
)

// maxRequestBodySize caps the chat request body (64KB).
const maxRequestBodySize = 64 << 10

// ChatHandler serves the chat pipeline over HTTP.
type ChatHandler struct {
	svc      *chat.Service
	catalog  domain.Catalog
	siteName string
}

// NewChatHandler creates the chat HTTP handler.
func NewChatHandler(svc *chat.Service, cat domain.Catalog, siteName string) *ChatHandler {
	return &ChatHandler{svc: svc, catalog: cat, siteName: siteName}
}

// RegisterRoutes registers the chat routes on the router.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Post("/chat", h.HandleChat)
	r.Get("/about/pricing", h.HandlePricing)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	OK        bool         `json:"ok"`
	SessionID string       `json:"sessionId"`
	Intent    string       `json:"intent,omitempty"`
	Reply     replyBody    `json:"reply"`
	Usage     domain.Usage `json:"usage"`
}

type replyBody struct {
	Text string `json:"text"`
}

// HandleChat handles POST /chat requests. Gate rejections are normal chat
// replies, not HTTP errors; only malformed requests get an error status.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionKeyFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.svc.Handle(r.Context(), sessionID, req.Message, time.Now())

	slog.Info("Chat turn",
		"session_id", sessionID,
		"blocked", res.Blocked,
		"intent", res.Intent,
		"from_model", res.FromModel,
		"message_length", len(req.Message),
	)

	resp := chatResponse{
		OK:        true,
		SessionID: res.SessionID,
		Reply:     replyBody{Text: res.Text},
		Usage:     res.Usage,
	}
	if !res.Blocked {
		resp.Intent = string(res.Intent)
	}
	JSON(w, http.StatusOK, resp)
}

// HandlePricing returns the plan catalog verbatim.
func (h *ChatHandler) HandlePricing(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"pricing": h.catalog,
	})
}

// HandleRoot is the liveness endpoint.
func (h *ChatHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(h.siteName + " API OK ✅"))
}
