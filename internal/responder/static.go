package responder

import (
	"context"
	"errors"
	"sync"

	"github.com/aescanero/dago-node-classifier/internal/tree"
)

// First always picks the first option. Useful for dry runs of a tree file.
type First struct{}

// Respond implements tree.Responder.
func (First) Respond(_ context.Context, _ string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	return options[0], nil
}

// Fixed always returns the same answer, whether or not it is an option.
type Fixed string

// Respond implements tree.Responder.
func (f Fixed) Respond(context.Context, string, []string) (string, error) {
	return string(f), nil
}

var errSequenceExhausted = errors.New("no answers left")

// Sequence returns its answers in order, one per question, and fails once they run out.
type Sequence struct {
	mu      sync.Mutex
	answers []string
	prompts []string
}

// NewSequence creates a scripted responder.
func NewSequence(answers ...string) *Sequence {
	return &Sequence{answers: answers}
}

// Respond implements tree.Responder.
func (s *Sequence) Respond(_ context.Context, prompt string, _ []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.prompts) >= len(s.answers) {
		return "", &tree.BackendError{Responder: "sequence", Err: errSequenceExhausted}
	}
	answer := s.answers[len(s.prompts)]
	s.prompts = append(s.prompts, prompt)
	return answer, nil
}

// Prompts returns the prompts received so far.
func (s *Sequence) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}
