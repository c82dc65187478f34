package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSessionKeyHeaderWins(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.Header.Set(SessionHeaderName, "my-session.1")
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "anon_11111111-2222-3333-4444-555555555555"})
	w := httptest.NewRecorder()

	if got := SessionKeyFromRequest(w, r, true); got != "my-session.1" {
		t.Errorf("key = %q, want header value", got)
	}
}

func TestSessionKeyRejectsMalformedHeader(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.Header.Set(SessionHeaderName, "bad key with spaces!")
	w := httptest.NewRecorder()

	got := SessionKeyFromRequest(w, r, true)
	if got == "bad key with spaces!" {
		t.Error("malformed header must not be used as session key")
	}
	if !strings.HasPrefix(got, "anon_") {
		t.Errorf("expected minted anon key, got %q", got)
	}
}

func TestSessionKeyReusesCookie(t *testing.T) {
	t.Parallel()

	const id = "anon_11111111-2222-3333-4444-555555555555"
	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	w := httptest.NewRecorder()

	if got := SessionKeyFromRequest(w, r, true); got != id {
		t.Errorf("key = %q, want cookie value", got)
	}
}

func TestSessionKeyMintsCookie(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	w := httptest.NewRecorder()

	got := SessionKeyFromRequest(w, r, true)
	if !anonIDPattern.MatchString(got) {
		t.Fatalf("minted key %q does not match the anon pattern", got)
	}

	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == AnonCookieName && c.Value == got {
			found = true
			if !c.HttpOnly {
				t.Error("anon cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("expected the minted key to be set as a cookie")
	}
}

func TestMiddlewarePutsKeyInContext(t *testing.T) {
	t.Parallel()

	var got string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionKeyFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.Header.Set(SessionHeaderName, "ctx-session")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != "ctx-session" {
		t.Errorf("context key = %q, want ctx-session", got)
	}
}

func TestSessionKeyFromContextFallback(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionKeyFromContext(r.Context()); got != FallbackKey {
		t.Errorf("fallback = %q, want %q", got, FallbackKey)
	}
}

func TestConnectionKeyDerivation(t *testing.T) {
	t.Parallel()

	const id = "anon_11111111-2222-3333-4444-555555555555"

	r := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	r.Header.Set(SessionHeaderName, "ws-session")
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	if got := ConnectionKey(r); got != "ws-session" {
		t.Errorf("key = %q, want header value", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	if got := ConnectionKey(r); got != id {
		t.Errorf("key = %q, want cookie value", got)
	}

	// No header and no cookie: the remote IP is the key, and no cookie is
	// minted on the way.
	r = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if got := ConnectionKey(r); got != "203.0.113.9" {
		t.Errorf("key = %q, want remote IP", got)
	}
}

func TestIPKey(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if got := IPKey(r); got != "203.0.113.9" {
		t.Errorf("IPKey = %q", got)
	}

	r.RemoteAddr = ""
	if got := IPKey(r); got != FallbackKey {
		t.Errorf("IPKey on empty addr = %q, want %q", got, FallbackKey)
	}
}
