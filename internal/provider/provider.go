// Package provider implements the HTTP clients for the translation
// model backends (Google Gemini and OpenRouter) behind a single
// text-generation interface.
package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Provider is a synchronous text-generation capability. Implementations
// must be safe for concurrent use; the book pipeline calls them from
// multiple file workers at once.
type Provider interface {
	// GenerateContent sends one user prompt and returns the model's
	// text response.
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Model returns the configured model name, for logging and stats.
	Model() string
}

// GenerationConfig carries the sampling settings shared by providers.
type GenerationConfig struct {
	SystemInstruction string
	Temperature       float64
	TopP              float64
	TopK              int
	// ResponseMIMEType requests structured output where the backend
	// supports it ("application/json" for dictionary generation).
	ResponseMIMEType string
}

// RetryableError indicates a transient transport failure (rate limit or
// server error) that is worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a surrounding markdown code fence, which some
// models wrap around structured responses.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
