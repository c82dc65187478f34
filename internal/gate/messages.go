package gate

import (
	"fmt"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// steeringMessage answers empty or low-information messages without spending
// the user's quota or a model call.
const steeringMessage = "¡Hola! 👋 Puedo contarte sobre nuestros planes y precios, cómo funciona el servicio o cómo contactarnos. ¿Qué te gustaría saber?"

// burstMessage answers messages rejected by the rolling-window limit.
const burstMessage = "Estás enviando mensajes muy seguido. Esperá un momento y volvé a intentar. 🙏"

// trivial holds low-information tokens that are answered with the steering
// prompt instead of spending quota or a model call.
var trivial = func() map[string]bool {
	words := []string{
		"hola", "hola!", "buenas", "buen dia", "buen día",
		"buenos dias", "buenos días", "buenas tardes", "buenas noches",
		"hey", "hello", "hi",
		"ok", "okay", "oka", "dale", "vale", "si", "sí", "no",
		"gracias", "muchas gracias", "genial", "perfecto",
		"jaja", "jajaja",
		"👍", "👋", "🙂", "😀", "😊", "❤️",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()

func (g *Gate) cooldownMessage(s *domain.Session, now time.Time) string {
	return fmt.Sprintf(
		"Alcanzaste el límite de mensajes por ahora. Podés volver a escribir en %d minutos, o contactarnos directo por WhatsApp: %s",
		CooldownMinutes(s, now), g.contact.WhatsAppLink(),
	)
}

func (g *Gate) quotaMessage() string {
	return fmt.Sprintf(
		"Llegaste al máximo de %d mensajes de esta sesión, así que pausamos el chat por %d minutos. Si es urgente, escribinos por WhatsApp: %s",
		g.maxMessages, int(g.cooldown.Minutes()), g.contact.WhatsAppLink(),
	)
}
