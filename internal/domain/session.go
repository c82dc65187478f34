package domain

import (
	"sync"
	"time"
)

// Session tracks usage counters for one conversational key. Counters are
// guarded by the embedded mutex; callers hold it for the duration of a chat
// turn (gate check through count update).
type Session struct {
	sync.Mutex

	ID            string
	MessageCount  int
	CooldownUntil time.Time
	Recent        []time.Time

	CreatedAt  time.Time
	LastSeenAt time.Time
}

// InCooldown reports whether the session's cooldown is set and still active.
func (s *Session) InCooldown(now time.Time) bool {
	return !s.CooldownUntil.IsZero() && now.Before(s.CooldownUntil)
}

// Usage returns the externally visible usage snapshot for the session.
func (s *Session) Usage(limit int) Usage {
	u := Usage{Msgs: s.MessageCount, Limit: limit}
	if !s.CooldownUntil.IsZero() {
		t := s.CooldownUntil
		u.CooldownUntil = &t
	}
	return u
}

// Usage is the usage block returned with every chat response.
type Usage struct {
	Msgs          int        `json:"msgs"`
	Limit         int        `json:"limit"`
	CooldownUntil *time.Time `json:"cooldownUntil"`
}
