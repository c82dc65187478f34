// Package intent classifies user messages into the fixed business intents.
package intent

import (
	"regexp"
	"strings"
)

// Intent is a classification label for a user message.
type Intent string

// The closed intent set. Fallback is returned when no rule matches and routes
// the message to the remote answer provider.
const (
	Contact     Intent = "contact"
	Pricing     Intent = "pricing"
	Basico      Intent = "basico"
	Esencial    Intent = "esencial"
	Combo       Intent = "combo"
	Premium     Intent = "premium"
	Setup       Intent = "setup"
	Permanencia Intent = "permanencia"
	How         Intent = "how"
	Email       Intent = "email"
	Human       Intent = "human"
	Usage       Intent = "usage"
	Fallback    Intent = "fallback"
)

type rule struct {
	re     *regexp.Regexp
	intent Intent
}

// rules is evaluated top to bottom; the first match wins. Order is load
// bearing: plan names come before the generic pricing group so that
// "cuánto cuesta el plan premium" classifies as premium, not pricing.
var rules = []rule{
	{regexp.MustCompile(`contacto|contactar|whatsapp|tel[eé]fono|llamar|n[uú]mero`), Contact},
	{regexp.MustCompile(`b[aá]sico`), Basico},
	{regexp.MustCompile(`esencial`), Esencial},
	{regexp.MustCompile(`combo`), Combo},
	{regexp.MustCompile(`premium`), Premium},
	{regexp.MustCompile(`instalaci[oó]n|instalar|setup|costo inicial|pago inicial|puesta en marcha`), Setup},
	{regexp.MustCompile(`permanencia|contrato|compromiso|cancelar`), Permanencia},
	{regexp.MustCompile(`c[oó]mo funciona|como es el proceso|c[oó]mo empiezo|qu[eé] incluye`), How},
	{regexp.MustCompile(`correo|email|mail`), Email},
	{regexp.MustCompile(`humano|persona real|asesor|agente|alguien real`), Human},
	{regexp.MustCompile(`l[ií]mite|cu[aá]ntos mensajes|mensajes me quedan|cu[aá]nto uso`), Usage},
	{regexp.MustCompile(`precio|cu[aá]nto|cuesta|costo|tarifa|valor|plan(es)?\b`), Pricing},
}

// Classify maps a raw message to an intent. It is a pure function: matching
// is case-insensitive substring matching over the ordered rule list, with no
// side effects.
func Classify(text string) Intent {
	t := strings.ToLower(text)
	for _, r := range rules {
		if r.re.MatchString(t) {
			return r.intent
		}
	}
	return Fallback
}
