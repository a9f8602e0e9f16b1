package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/neboloop/mindsort/internal/logging"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAICompleter calls the chat completions endpoint of OpenAI or any
// OpenAI-compatible base URL.
type OpenAICompleter struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAICompleter creates a completer using the official SDK.
func NewOpenAICompleter(opts Options) *OpenAICompleter {
	reqOpts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
		// one attempt per invocation
		option.WithMaxRetries(0),
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAICompleter{
		client:    openai.NewClient(reqOpts...),
		model:     firstNonEmpty(opts.Model, defaultOpenAIModel),
		maxTokens: opts.MaxTokens,
	}
}

// Complete sends one non-streaming chat completion request.
func (p *OpenAICompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    buildOpenAIMessages(messages),
		Temperature: openai.Float(temperature),
	}
	if p.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.maxTokens))
	}

	logging.Debugf("[OpenAI] Sending request: model=%s messages=%d", p.model, len(messages))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
