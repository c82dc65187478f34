// Package gate implements the per-session rate and usage gate.
//
// Checks run in a fixed order and short-circuit on the first match: active
// cooldown, trivial message, burst rate, session quota. A blocked turn never
// increments the session's message count; counting happens after resolution.
package gate

import (
	"math"
	"strings"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// burstWindow is the trailing window for the burst rate limit.
const burstWindow = time.Minute

// Decision is the outcome of a gate check.
type Decision struct {
	Blocked bool
	Message string
}

var allowed = Decision{}

// Gate evaluates incoming messages against session counters. The caller must
// hold the session's mutex across Check and the subsequent count update.
type Gate struct {
	maxMessages int
	cooldown    time.Duration
	burstLimit  int
	contact     domain.Contact
}

// New creates a gate with the given limits.
func New(maxMessages int, cooldown time.Duration, burstLimit int, contact domain.Contact) *Gate {
	return &Gate{
		maxMessages: maxMessages,
		cooldown:    cooldown,
		burstLimit:  burstLimit,
		contact:     contact,
	}
}

// Check decides whether this message may proceed to the classifier.
func (g *Gate) Check(s *domain.Session, raw string, now time.Time) Decision {
	if s.InCooldown(now) {
		return Decision{Blocked: true, Message: g.cooldownMessage(s, now)}
	}

	msg := strings.ToLower(strings.TrimSpace(raw))
	if msg == "" || trivial[msg] {
		return Decision{Blocked: true, Message: steeringMessage}
	}

	// Prune the window first; a rejected burst attempt is not recorded, so a
	// client hammering the endpoint cannot jam its own window forever.
	s.Recent = pruneWindow(s.Recent, now)
	if len(s.Recent) >= g.burstLimit {
		return Decision{Blocked: true, Message: burstMessage}
	}
	s.Recent = append(s.Recent, now)

	if s.MessageCount >= g.maxMessages {
		MaybeActivateCooldown(s, now, g.cooldown)
		return Decision{Blocked: true, Message: g.quotaMessage()}
	}

	return allowed
}

// MaybeActivateCooldown sets the session cooldown if it is not already set.
// It is the single cooldown transition, shared by the gate's quota check and
// the post-resolution count update. Returns true when it transitioned.
func MaybeActivateCooldown(s *domain.Session, now time.Time, cooldown time.Duration) bool {
	if !s.CooldownUntil.IsZero() {
		return false
	}
	s.CooldownUntil = now.Add(cooldown)
	return true
}

// CooldownMinutes returns the remaining cooldown in whole minutes, rounded
// up and floored at zero.
func CooldownMinutes(s *domain.Session, now time.Time) int {
	mins := int(math.Ceil(s.CooldownUntil.Sub(now).Minutes()))
	if mins < 0 {
		return 0
	}
	return mins
}

func pruneWindow(ts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-burstWindow)
	var recent []time.Time
	for _, t := range ts {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
