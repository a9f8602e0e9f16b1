package ai

import (
	"context"
	"sync"
)

// Call records one request seen by a ScriptedCompleter.
type Call struct {
	Messages    []Message
	Temperature float64
}

// ScriptedCompleter replays canned responses in order. When the script runs
// out, the last entry repeats.
type ScriptedCompleter struct {
	mu        sync.Mutex
	responses []ScriptedResponse
	calls     []Call
}

// ScriptedResponse is one canned reply or failure.
type ScriptedResponse struct {
	Content string
	Err     error
}

// NewScriptedCompleter builds a completer that replies with the given responses.
func NewScriptedCompleter(responses ...ScriptedResponse) *ScriptedCompleter {
	return &ScriptedCompleter{responses: responses}
}

// Complete returns the next scripted response.
func (s *ScriptedCompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]Message, len(messages))
	copy(cp, messages)
	s.calls = append(s.calls, Call{Messages: cp, Temperature: temperature})

	if len(s.responses) == 0 {
		return "", ErrEmptyCompletion
	}
	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	if r.Err != nil {
		return "", r.Err
	}
	if r.Content == "" {
		return "", ErrEmptyCompletion
	}
	return r.Content, nil
}

// Calls returns a copy of the recorded requests.
func (s *ScriptedCompleter) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}
