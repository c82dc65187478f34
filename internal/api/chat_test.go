package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/horizonweb/horizon-chat/internal/catalog"
	"github.com/horizonweb/horizon-chat/internal/chat"
	"github.com/horizonweb/horizon-chat/internal/domain"
	"github.com/horizonweb/horizon-chat/internal/gate"
	"github.com/horizonweb/horizon-chat/internal/identity"
	"github.com/horizonweb/horizon-chat/internal/provider"
	"github.com/horizonweb/horizon-chat/internal/reply"
	"github.com/horizonweb/horizon-chat/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	contact := domain.Contact{Phone: "5491100000000", Email: "test@example.com"}
	cat := catalog.Default()
	sessions := store.NewMemory(100)
	g := gate.New(50, 20*time.Minute, 100, contact)
	resolver := reply.New(cat, contact, "Horizon", 50, provider.Disabled{})
	svc := chat.New(sessions, g, resolver, 50, 20*time.Minute, nil)

	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	NewChatHandler(svc, cat, "Horizon").RegisterRoutes(r)
	return r
}

func TestHandleChatAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"¿Cuánto cuesta el plan premium?"}`))
	req.Header.Set(identity.SessionHeaderName, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		OK        bool   `json:"ok"`
		SessionID string `json:"sessionId"`
		Intent    string `json:"intent"`
		Reply     struct {
			Text string `json:"text"`
		} `json:"reply"`
		Usage domain.Usage `json:"usage"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok=true")
	}
	if resp.SessionID != "test-session" {
		t.Errorf("sessionId = %q", resp.SessionID)
	}
	if resp.Intent != "premium" {
		t.Errorf("intent = %q, want premium", resp.Intent)
	}
	if !strings.Contains(resp.Reply.Text, "Plan Premium") {
		t.Errorf("reply text = %q", resp.Reply.Text)
	}
	if resp.Usage.Msgs != 1 || resp.Usage.Limit != 50 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestHandleChatBlockedOmitsIntent(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"ok"}`))
	req.Header.Set(identity.SessionHeaderName, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("gate rejection must stay 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, present := resp["intent"]; present {
		t.Error("blocked response must omit intent")
	}
	usage, ok := resp["usage"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing usage block: %v", resp)
	}
	if usage["msgs"] != float64(0) {
		t.Errorf("blocked turn must not count, usage = %v", usage)
	}
}

func TestHandleChatInvalidBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandlePricingReturnsDefaultKeys(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/about/pricing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		OK      bool           `json:"ok"`
		Pricing domain.Catalog `json:"pricing"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok=true")
	}

	got := resp.Pricing.Keys()
	want := []string{"basico", "esencial", "combo", "premium"}
	if len(got) != len(want) {
		t.Fatalf("plan keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plan key [%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHandleRootLiveness(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Horizon API OK") {
		t.Errorf("body = %q", w.Body.String())
	}
}
