// Package reply renders the response for a classified intent.
//
// Every non-fallback intent maps to a deterministic render over the plan
// catalog and contact constants. Fallback delegates to the remote answer
// provider; if that fails for any reason the fixed menu text is substituted.
package reply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
	"github.com/horizonweb/horizon-chat/internal/gate"
	"github.com/horizonweb/horizon-chat/internal/intent"
	"github.com/horizonweb/horizon-chat/internal/provider"
)

// Resolver produces reply text for classified messages.
type Resolver struct {
	catalog     domain.Catalog
	contact     domain.Contact
	siteName    string
	maxMessages int
	remote      provider.Provider
}

// New creates a resolver over the given catalog, contact info and provider.
func New(cat domain.Catalog, contact domain.Contact, siteName string, maxMessages int, remote provider.Provider) *Resolver {
	return &Resolver{
		catalog:     cat,
		contact:     contact,
		siteName:    siteName,
		maxMessages: maxMessages,
		remote:      remote,
	}
}

// Resolve renders the reply for the intent. fromModel reports whether the
// text came from the remote provider. The caller holds the session's mutex;
// the session is only read here, never mutated.
func (r *Resolver) Resolve(ctx context.Context, in intent.Intent, raw string, s *domain.Session, now time.Time) (text string, fromModel bool) {
	switch in {
	case intent.Pricing:
		return r.pricing(), false
	case intent.Basico, intent.Esencial, intent.Combo, intent.Premium:
		return r.planDetail(string(in)), false
	case intent.Setup:
		return r.setup(), false
	case intent.Permanencia:
		return r.permanencia(), false
	case intent.Contact:
		return r.contactText(), false
	case intent.Email:
		return fmt.Sprintf("Nuestro email es %s 📧 También podés escribirnos por WhatsApp: %s", r.contact.Email, r.contact.WhatsAppLink()), false
	case intent.Human:
		return fmt.Sprintf("¡Claro! Para hablar con una persona del equipo, escribinos por WhatsApp: %s y te respondemos a la brevedad. 🙌", r.contact.WhatsAppLink()), false
	case intent.How:
		return r.how(), false
	case intent.Usage:
		return r.usage(s, now), false
	default:
		return r.fallback(ctx, raw)
	}
}

func (r *Resolver) pricing() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estos son los planes de %s 💻\n", r.siteName)
	for _, p := range r.catalog.Plans {
		b.WriteString("\n")
		b.WriteString(renderPlan(p))
	}
	b.WriteString("\n¿Querés que te cuente más sobre alguno? Decime el nombre del plan.")
	return b.String()
}

func (r *Resolver) planDetail(key string) string {
	p, ok := r.catalog.Get(key)
	if !ok {
		return r.menu()
	}
	return renderPlan(p) + "\n¿Te gustaría avanzar? Escribinos por WhatsApp: " + r.contact.WhatsAppLink()
}

func renderPlan(p domain.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✨ %s — %s (alta %s)\n", p.Name, p.Monthly, p.Setup)
	for _, f := range p.Features {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	if p.Notes != "" {
		fmt.Fprintf(&b, "  ℹ️ %s\n", p.Notes)
	}
	return b.String()
}

func (r *Resolver) setup() string {
	var b strings.Builder
	b.WriteString("Costos de alta por plan 🔧\n")
	for _, p := range r.catalog.Plans {
		fmt.Fprintf(&b, "• %s: %s\n", p.Name, p.Setup)
	}
	b.WriteString("El alta se abona una sola vez, junto con el primer mes.")
	return b.String()
}

func (r *Resolver) permanencia() string {
	var withNotes []string
	for _, p := range r.catalog.Plans {
		if strings.Contains(strings.ToLower(p.Notes), "permanencia") {
			withNotes = append(withNotes, fmt.Sprintf("%s (%s)", p.Name, strings.TrimSuffix(p.Notes, ".")))
		}
	}
	if len(withNotes) == 0 {
		return "Ninguno de nuestros planes tiene permanencia mínima: podés darte de baja cuando quieras."
	}
	return fmt.Sprintf(
		"Solo estos planes tienen permanencia mínima: %s. El resto se puede dar de baja en cualquier momento.",
		strings.Join(withNotes, "; "),
	)
}

func (r *Resolver) contactText() string {
	return fmt.Sprintf(
		"Podés contactarnos así 📱\n• WhatsApp: %s\n• Teléfono: %s\n• Email: %s\nRespondemos de lunes a viernes de 9 a 18 h.",
		r.contact.WhatsAppLink(), r.contact.Phone, r.contact.Email,
	)
}

func (r *Resolver) how() string {
	return fmt.Sprintf(
		"Funciona así 🚀\n1. Elegís un plan y nos escribís por WhatsApp: %s\n2. Nos contás sobre tu negocio y te armamos una propuesta.\n3. En pocos días tu sitio está online, y nosotros nos ocupamos del mantenimiento.\nSi querés ver los planes, escribí \"precios\".",
		r.contact.WhatsAppLink(),
	)
}

func (r *Resolver) usage(s *domain.Session, now time.Time) string {
	text := fmt.Sprintf("Llevás %d de %d mensajes en esta sesión.", s.MessageCount, r.maxMessages)
	if s.InCooldown(now) {
		text += fmt.Sprintf(" El chat está en pausa: podés volver a escribir en %d minutos.", gate.CooldownMinutes(s, now))
	}
	return text
}

func (r *Resolver) fallback(ctx context.Context, raw string) (string, bool) {
	answer, err := r.remote.Answer(ctx, raw)
	if err != nil {
		slog.Warn("Remote answer provider failed, using menu fallback", "error", err)
		return r.menu(), false
	}
	return answer, true
}

// menu is the fixed fallback shown when the remote provider yields nothing.
func (r *Resolver) menu() string {
	return fmt.Sprintf(
		"No estoy seguro de haberte entendido 🤔 Puedo ayudarte con:\n• \"precios\" — planes y tarifas\n• \"cómo funciona\" — el proceso de trabajo\n• \"contacto\" — hablar con el equipo\nO escribinos directo por WhatsApp: %s",
		r.contact.WhatsAppLink(),
	)
}
