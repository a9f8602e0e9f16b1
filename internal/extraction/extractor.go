// Package extraction turns free-text input into categorized task candidates
// using a language-model completion, with a deterministic fallback when the
// model is unavailable or answers with something unusable.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/model"
)

// DefaultTemperature favors deterministic output.
const DefaultTemperature = 0.3

// Item is one extracted task candidate.
type Item struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Category    model.Category `json:"category"`
	Priority    model.Priority `json:"priority"`
	Deadline    *string        `json:"deadline"`
}

// Result is the outcome of one extraction. Fallback is true when the
// deterministic substitute was used.
type Result struct {
	Tasks            []Item   `json:"tasks"`
	DistressDetected bool     `json:"distressDetected"`
	Suggestions      []string `json:"mentalHealthSuggestions"`
	Fallback         bool     `json:"fallback"`
}

// Extractor calls the model and validates its answer.
type Extractor struct {
	completer   ai.Completer
	temperature float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(e *Extractor) { e.temperature = t }
}

// NewExtractor creates an extractor backed by completer.
func NewExtractor(completer ai.Completer, opts ...Option) *Extractor {
	e := &Extractor{completer: completer, temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract never fails: any upstream or decode problem yields Fallback(input).
func (e *Extractor) Extract(ctx context.Context, input string) Result {
	log := logging.WithContext(ctx)

	content, err := e.completer.Complete(ctx, []ai.Message{
		ai.System(SystemPrompt),
		ai.User(UserPrompt(input)),
	}, e.temperature)
	if err != nil {
		log.Warnf("[Extraction] Upstream call failed (%s), using fallback: %v", ai.ClassifyError(err), err)
		return Fallback(input)
	}

	res, err := Decode(content)
	if err != nil {
		log.Warnf("[Extraction] Unusable model response, using fallback: %v", err)
		return Fallback(input)
	}

	log.Infof("[Extraction] Extracted %d task(s), distress=%v", len(res.Tasks), res.DistressDetected)
	return res
}

// ErrMalformed wraps every reason a model response is rejected.
var ErrMalformed = errors.New("malformed model response")

type wirePayload struct {
	Tasks       *[]wireTask `json:"tasks"`
	Distress    *bool       `json:"distressDetected"`
	Suggestions []string    `json:"mentalHealthSuggestions"`
}

type wireTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
}

// Decode parses a model response into a Result. Required keys must be
// present, every task must carry a title and known enums, and at least one
// task must come back.
func Decode(content string) (Result, error) {
	raw, err := cleanJSON(content)
	if err != nil {
		return Result{}, err
	}

	var p wirePayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&p); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.Tasks == nil {
		return Result{}, fmt.Errorf("%w: missing tasks", ErrMalformed)
	}
	if p.Distress == nil {
		return Result{}, fmt.Errorf("%w: missing distressDetected", ErrMalformed)
	}
	if len(*p.Tasks) == 0 {
		return Result{}, fmt.Errorf("%w: no tasks", ErrMalformed)
	}

	items := make([]Item, 0, len(*p.Tasks))
	for i, wt := range *p.Tasks {
		item, err := wt.item()
		if err != nil {
			return Result{}, fmt.Errorf("%w: task %d: %v", ErrMalformed, i, err)
		}
		items = append(items, item)
	}

	suggestions := make([]string, 0, len(p.Suggestions))
	for _, s := range p.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}

	return Result{
		Tasks:            items,
		DistressDetected: *p.Distress,
		Suggestions:      suggestions,
	}, nil
}

func (w wireTask) item() (Item, error) {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return Item{}, errors.New("empty title")
	}
	cat, err := model.ParseCategory(w.Category)
	if err != nil {
		return Item{}, err
	}
	pri, err := model.ParsePriority(w.Priority)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Title:       title,
		Description: optionalText(w.Description),
		Category:    cat,
		Priority:    pri,
		Deadline:    optionalDeadline(w.Deadline),
	}, nil
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func optionalDeadline(s *string) *string {
	v := optionalText(s)
	if v == nil {
		return nil
	}
	switch strings.ToLower(*v) {
	case "null", "none", "n/a":
		return nil
	}
	return v
}

// cleanJSON strips code fences and returns the first balanced JSON object.
func cleanJSON(content string) ([]byte, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformed)
	}

	// ```json ... ``` or ``` ... ```
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object", ErrMalformed)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unbalanced braces", ErrMalformed)
}
