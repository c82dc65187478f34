// Package store provides the in-memory session store.
package store

import (
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// SessionStore is the contract the chat pipeline depends on. Sessions are
// created lazily and live until evicted; there is no persistence.
type SessionStore interface {
	// Get returns the session for the given key, creating it on first access.
	Get(sessionID string) *domain.Session

	// Evict removes a session, if present.
	Evict(sessionID string)

	// Len returns the number of live sessions.
	Len() int
}

// now is a test seam.
var now = time.Now
