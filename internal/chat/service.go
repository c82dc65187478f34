// Package chat wires the gate, classifier and resolver into one pipeline.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
	"github.com/horizonweb/horizon-chat/internal/gate"
	"github.com/horizonweb/horizon-chat/internal/intent"
	"github.com/horizonweb/horizon-chat/internal/reply"
	"github.com/horizonweb/horizon-chat/internal/store"
)

// Result is the outcome of one chat turn.
type Result struct {
	SessionID string
	Blocked   bool
	Intent    intent.Intent
	Text      string
	FromModel bool
	Usage     domain.Usage
}

// Service runs the chat pipeline: gate, classify, resolve, count.
type Service struct {
	sessions    store.SessionStore
	gate        *gate.Gate
	resolver    *reply.Resolver
	maxMessages int
	cooldown    time.Duration
	log         TranscriptLogger
}

// New creates the chat service.
func New(sessions store.SessionStore, g *gate.Gate, r *reply.Resolver, maxMessages int, cooldown time.Duration, log TranscriptLogger) *Service {
	if log == nil {
		log = NopTranscript{}
	}
	return &Service{
		sessions:    sessions,
		gate:        g,
		resolver:    r,
		maxMessages: maxMessages,
		cooldown:    cooldown,
		log:         log,
	}
}

// Handle processes one user message for the given session key.
//
// The session mutex is held for the whole turn, so concurrent requests for
// the same key serialize and the counters stay consistent. Blocked turns
// never change the message count; allowed turns increment it by exactly one,
// after resolution, and may activate the cooldown when the quota is reached.
func (s *Service) Handle(ctx context.Context, sessionID, message string, now time.Time) Result {
	sess := s.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	s.log.Log(Event{
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		Direction: "in",
		Text:      message,
	})

	if d := s.gate.Check(sess, message, now); d.Blocked {
		res := Result{
			SessionID: sessionID,
			Blocked:   true,
			Text:      d.Message,
			Usage:     sess.Usage(s.maxMessages),
		}
		s.logReply(now, res)
		return res
	}

	in := intent.Classify(message)
	text, fromModel := s.resolver.Resolve(ctx, in, message, sess, now)

	sess.MessageCount++
	if sess.MessageCount >= s.maxMessages && gate.MaybeActivateCooldown(sess, now, s.cooldown) {
		text += s.quotaWarning()
	}

	res := Result{
		SessionID: sessionID,
		Intent:    in,
		Text:      text,
		FromModel: fromModel,
		Usage:     sess.Usage(s.maxMessages),
	}
	s.logReply(now, res)
	return res
}

func (s *Service) quotaWarning() string {
	return fmt.Sprintf(
		"\n\n⚠️ Este fue tu último mensaje disponible en esta sesión. El chat queda en pausa %d minutos.",
		int(s.cooldown.Minutes()),
	)
}

func (s *Service) logReply(now time.Time, res Result) {
	s.log.Log(Event{
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		SessionID: res.SessionID,
		Direction: "out",
		Intent:    string(res.Intent),
		Text:      res.Text,
		Blocked:   res.Blocked,
		FromModel: res.FromModel,
	})
}
