package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/neboloop/mindsort/internal/logging"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiCompleter calls Google's Gemini API.
type GeminiCompleter struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiCompleter creates a completer using the generative-ai-go client.
func NewGeminiCompleter(ctx context.Context, opts Options) (*GeminiCompleter, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithHTTPClient(&http.Client{
			Timeout:   opts.Timeout,
			Transport: &apiKeyTransport{key: opts.APIKey},
		}))
	}

	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{
		client:    client,
		model:     firstNonEmpty(opts.Model, defaultGeminiModel),
		maxTokens: opts.MaxTokens,
	}, nil
}

// Close releases the underlying client.
func (p *GeminiCompleter) Close() error {
	return p.client.Close()
}

// Complete sends one GenerateContent request.
func (p *GeminiCompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	system, turns := splitSystem(messages)
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini completion: no user message")
	}

	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(float32(temperature))
	if p.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(p.maxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	logging.Debugf("[Gemini] Sending request: model=%s messages=%d", p.model, len(turns))

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// apiKeyTransport adds the key header, which option.WithHTTPClient would
// otherwise drop.
type apiKeyTransport struct {
	key string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("x-goog-api-key", t.key)
	return http.DefaultTransport.RoundTrip(r)
}
