// Package identity derives the opaque session key for each request.
//
// Derivation order: explicit X-Session-ID header, then the anonymous device
// cookie (minted on first contact), then the remote IP, then the literal
// "anon". The key is placed in the request context for the handlers.
package identity

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AnonCookieName is the anonymous per-device cookie.
	AnonCookieName = "horizon_anon_id"
	// SessionHeaderName carries an explicit session key from the client.
	SessionHeaderName = "X-Session-ID"
	// FallbackKey is used when no other derivation succeeds.
	FallbackKey = "anon"

	anonCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const sessionKeyKey contextKey = iota

var (
	anonIDPattern    = regexp.MustCompile(`^anon_[a-f0-9-]{36}$`)
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// SessionKeyFromContext extracts the session key from the request context.
func SessionKeyFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKeyKey).(string); ok {
		return v
	}
	return FallbackKey
}

// Middleware injects the derived session key into the request context.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := SessionKeyFromRequest(w, r, isDev)
			ctx := context.WithValue(r.Context(), sessionKeyKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionKeyFromRequest derives the session key, minting the anonymous
// cookie when the client has none.
func SessionKeyFromRequest(w http.ResponseWriter, r *http.Request, isDev bool) string {
	if sid := sanitizeSessionID(r.Header.Get(SessionHeaderName)); sid != "" {
		return sid
	}

	if c, err := r.Cookie(AnonCookieName); err == nil && anonIDPattern.MatchString(c.Value) {
		setAnonCookie(w, c.Value, isDev)
		return c.Value
	}

	id := "anon_" + uuid.NewString()
	setAnonCookie(w, id, isDev)
	return id
}

// ConnectionKey derives the session key without minting a cookie: sanitized
// header, then an existing anon cookie, then the remote IP. Used on WebSocket
// handshakes, where a Set-Cookie on the upgrade response is not reliably
// honored and the remote IP gives a stable key instead.
func ConnectionKey(r *http.Request) string {
	if sid := sanitizeSessionID(r.Header.Get(SessionHeaderName)); sid != "" {
		return sid
	}
	if c, err := r.Cookie(AnonCookieName); err == nil && anonIDPattern.MatchString(c.Value) {
		return c.Value
	}
	return IPKey(r)
}

// IPKey returns a normalized remote IP usable as a last-resort session key.
func IPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return FallbackKey
	}
	return host
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func setAnonCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}
