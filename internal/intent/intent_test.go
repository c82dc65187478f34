package intent

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Intent
	}{
		{"¿Cuánto cuesta el plan premium?", Premium},
		{"quiero hablar con un humano", Human},
		{"asdkjh", Fallback},
		{"precios", Pricing},
		{"cuanto sale?", Pricing},
		{"que planes tienen", Pricing},
		{"me interesa el plan básico", Basico},
		{"info del basico", Basico},
		{"el esencial que trae?", Esencial},
		{"hablame del combo", Combo},
		{"cuanto es la instalación?", Setup},
		{"hay costo inicial?", Setup},
		{"tiene permanencia?", Permanencia},
		{"puedo cancelar cuando quiera?", Permanencia},
		{"cómo funciona el servicio?", How},
		{"tienen whatsapp?", Contact},
		{"pasame un teléfono", Contact},
		{"cual es el mail?", Email},
		{"necesito un asesor", Human},
		{"cuántos mensajes me quedan?", Usage},
		{"", Fallback},
	}

	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// Classification is order-sensitive: plan names must win over the generic
// pricing group when both match.
func TestClassifyPlanNameBeatsPricing(t *testing.T) {
	t.Parallel()

	tests := map[string]Intent{
		"precio del plan premium":   Premium,
		"cuanto cuesta el basico":   Basico,
		"tarifa del plan esencial":  Esencial,
		"valor del combo por favor": Combo,
	}
	for text, want := range tests {
		if got := Classify(text); got != want {
			t.Errorf("Classify(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	if got := Classify("PREMIUM"); got != Premium {
		t.Errorf("Classify(PREMIUM) = %q, want premium", got)
	}
	if got := Classify("WhatsApp?"); got != Contact {
		t.Errorf("Classify(WhatsApp?) = %q, want contact", got)
	}
}
