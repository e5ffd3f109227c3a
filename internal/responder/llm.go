package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aescanero/dago-libs/pkg/domain"
	"github.com/aescanero/dago-libs/pkg/ports"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"go.uber.org/zap"
)

// CompleteFunc sends a prompt to a model and returns its raw answer.
// options is the set the answer is expected to come from; backends that can
// constrain generation use it.
type CompleteFunc func(ctx context.Context, prompt string, options []string) (string, error)

// LLM answers questions with a language model. Raw answers are normalized onto
// the option set with Match; an answer that cannot be mapped is returned as is
// so the tree applies its fallback.
type LLM struct {
	name     string
	complete CompleteFunc
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLLM creates an LLM responder. A zero timeout leaves the caller's deadline in place.
func NewLLM(name string, complete CompleteFunc, timeout time.Duration, logger *zap.Logger) *LLM {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLM{
		name:     name,
		complete: complete,
		timeout:  timeout,
		logger:   logger,
	}
}

// Respond implements tree.Responder.
func (r *LLM) Respond(ctx context.Context, prompt string, options []string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Debug("calling llm",
		zap.String("backend", r.name),
		zap.String("prompt", prompt),
		zap.Strings("options", options),
	)

	raw, err := r.complete(ctx, prompt, options)
	if err != nil {
		r.logger.Error("llm call failed",
			zap.String("backend", r.name),
			zap.Error(err),
		)
		return "", &tree.BackendError{Responder: r.name, Err: err}
	}

	r.logger.Debug("llm response received",
		zap.String("backend", r.name),
		zap.String("response", raw),
	)

	answer, ok := Match(raw, options)
	if !ok {
		r.logger.Warn("llm response did not match any option",
			zap.String("backend", r.name),
			zap.String("response", raw),
		)
		return strings.TrimSpace(raw), nil
	}

	return answer, nil
}

// AdapterCompletion calls a dago-adapters LLM client.
func AdapterCompletion(client ports.LLMClient, model string, maxTokens int) CompleteFunc {
	return func(ctx context.Context, prompt string, _ []string) (string, error) {
		req := &domain.LLMRequest{
			Model: model,
			Messages: []domain.Message{
				{
					Role:    "user",
					Content: prompt,
				},
			},
			MaxTokens: maxTokens,
		}

		respInterface, err := client.GenerateCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("llm completion failed: %w", err)
		}

		resp, ok := respInterface.(*domain.LLMResponse)
		if !ok {
			return "", fmt.Errorf("unexpected response type from LLM: %T", respInterface)
		}

		return resp.Content, nil
	}
}
