// Package provider implements the remote answer provider used for messages
// no canned response covers.
package provider

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no API credential is configured. The service
// keeps running; the resolver substitutes the canned fallback.
var ErrDisabled = errors.New("remote answer provider disabled")

// ErrEmptyAnswer is returned when the remote service answered without usable
// content.
var ErrEmptyAnswer = errors.New("remote answer provider returned no content")

// Provider produces a free-form answer for a user message. Failures are
// ordinary errors, never fatal to the chat pipeline.
type Provider interface {
	Answer(ctx context.Context, message string) (string, error)
}

// Disabled is the provider used when no credential is configured.
type Disabled struct{}

// Answer always fails with ErrDisabled.
func (Disabled) Answer(context.Context, string) (string, error) {
	return "", ErrDisabled
}
