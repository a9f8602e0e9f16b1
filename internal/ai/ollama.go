package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/neboloop/mindsort/internal/logging"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "qwen3:4b"
)

// OllamaCompleter talks to a local Ollama server.
type OllamaCompleter struct {
	client *api.Client
	model  string
}

// NewOllamaCompleter creates a completer using the Ollama client package.
func NewOllamaCompleter(opts Options) *OllamaCompleter {
	parsedURL, err := url.Parse(firstNonEmpty(opts.BaseURL, defaultOllamaURL))
	if err != nil {
		parsedURL, _ = url.Parse(defaultOllamaURL)
	}
	return &OllamaCompleter{
		client: api.NewClient(parsedURL, &http.Client{Timeout: opts.Timeout}),
		model:  firstNonEmpty(opts.Model, defaultOllamaModel),
	}
}

// Complete sends one non-streaming chat request.
func (p *OllamaCompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	msgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": temperature},
	}

	logging.Debugf("[Ollama] Sending request: model=%s messages=%d", p.model, len(msgs))

	var sb strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
