package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI calls the chat-completions API with a system prompt embedding the
// plan catalog and contact constants.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	system  string
	client  *http.Client
}

// NewOpenAI creates a provider for the given credential and model. The
// catalog and contact info are serialized once into the system prompt.
func NewOpenAI(apiKey, model, siteName string, cat domain.Catalog, contact domain.Contact) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		system:  systemPrompt(siteName, cat, contact),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (o *OpenAI) WithBaseURL(u string) *OpenAI {
	o.baseURL = strings.TrimRight(u, "/")
	return o
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Answer sends the user message to the completions endpoint and returns the
// trimmed content of the first choice.
func (o *OpenAI) Answer(ctx context.Context, message string) (string, error) {
	if o.apiKey == "" {
		return "", ErrDisabled
	}

	body, err := json.Marshal(completionRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: o.system},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("completion request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	answer := strings.TrimSpace(payload.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

// systemPrompt embeds the catalog and contact constants so the model answers
// with real business facts instead of inventing them.
func systemPrompt(siteName string, cat domain.Catalog, contact domain.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sos el asistente virtual de %s, un estudio de diseño web. ", siteName)
	b.WriteString("Respondé en español, en un tono cercano y breve (máximo 3 oraciones). ")
	b.WriteString("Usá únicamente esta información del negocio:\n\nPlanes:\n")
	for _, p := range cat.Plans {
		fmt.Fprintf(&b, "- %s: %s, alta %s.", p.Name, p.Monthly, p.Setup)
		if len(p.Features) > 0 {
			fmt.Fprintf(&b, " Incluye: %s.", strings.Join(p.Features, "; "))
		}
		if p.Notes != "" {
			fmt.Fprintf(&b, " %s", p.Notes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nContacto: WhatsApp %s, email %s.\n", contact.WhatsAppLink(), contact.Email)
	b.WriteString("Si no sabés la respuesta, sugerí contactar por WhatsApp.")
	return b.String()
}
