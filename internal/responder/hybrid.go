package responder

import (
	"context"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"go.uber.org/zap"
)

// Hybrid tries fast CEL rules first and asks the next responder only when no
// rule applies.
type Hybrid struct {
	rules  *Rules
	next   tree.Responder
	logger *zap.Logger
}

// NewHybrid creates a hybrid responder.
func NewHybrid(rules *Rules, next tree.Responder, logger *zap.Logger) *Hybrid {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hybrid{rules: rules, next: next, logger: logger}
}

// Respond implements tree.Responder.
func (h *Hybrid) Respond(ctx context.Context, prompt string, options []string) (string, error) {
	if answer, ok := h.rules.Match(ctx, prompt, options); ok {
		h.logger.Debug("answered by fast rule", zap.String("answer", answer))
		return answer, nil
	}

	h.logger.Debug("fast rules did not match, asking next responder")
	return h.next.Respond(ctx, prompt, options)
}
