// Package ai wraps the language-model providers behind a single
// request/response completion call.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role tags a message for the model.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Completer sends an ordered list of messages and returns the text of the
// first choice. One call is one upstream request; implementations never retry.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// ErrEmptyCompletion is returned when the provider answered without content.
var ErrEmptyCompletion = errors.New("no response from AI")

// Options configures a provider. Model and BaseURL fall back to per-provider defaults.
type Options struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Providers lists the accepted provider ids.
var Providers = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}

// New builds the completer selected by opts.Provider.
func New(ctx context.Context, opts Options) (Completer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAICompleter(opts), nil
	case ProviderAnthropic:
		return NewAnthropicCompleter(opts), nil
	case ProviderGemini:
		p, err := NewGeminiCompleter(ctx, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderOllama:
		return NewOllamaCompleter(opts), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want one of %s)", opts.Provider, strings.Join(Providers, ", "))
	}
}

// splitSystem separates system messages (joined) from the conversation turns,
// for providers that take the system prompt out of band.
func splitSystem(messages []Message) (string, []Message) {
	var (
		system []string
		rest   []Message
	)
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
