package responder

import (
	"context"
	"fmt"

	"github.com/aescanero/dago-node-classifier/internal/eval/cel"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"go.uber.org/zap"
)

// Rules answers questions with CEL rules evaluated in order. A rule applies
// only when its answer is one of the question's options.
type Rules struct {
	rules     []cel.Rule
	evaluator *cel.Evaluator
	logger    *zap.Logger
}

// NewRules validates every rule condition up front.
func NewRules(rules []cel.Rule, logger *zap.Logger) (*Rules, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluator := cel.NewEvaluator()
	for i, rule := range rules {
		path := fmt.Sprintf("rules[%d]", i)
		if rule.When == "" {
			return nil, &tree.ConfigError{Path: path, Reason: "condition is required"}
		}
		if rule.Answer == "" {
			return nil, &tree.ConfigError{Path: path, Reason: "answer is required"}
		}
		if err := evaluator.ValidateExpression(rule.When); err != nil {
			return nil, &tree.ConfigError{Path: path, Reason: err.Error()}
		}
	}

	return &Rules{
		rules:     rules,
		evaluator: evaluator,
		logger:    logger,
	}, nil
}

// Match returns the answer of the first rule that applies.
func (r *Rules) Match(ctx context.Context, prompt string, options []string) (string, bool) {
	vars := map[string]interface{}{
		"prompt":  prompt,
		"options": options,
	}

	for i, rule := range r.rules {
		if !contains(options, rule.Answer) {
			continue
		}

		r.logger.Debug("evaluating rule",
			zap.Int("rule_index", i),
			zap.String("condition", rule.When),
		)

		matched, err := r.evaluator.EvaluateBool(ctx, rule.When, vars)
		if err != nil {
			r.logger.Warn("rule evaluation error",
				zap.Int("rule_index", i),
				zap.String("condition", rule.When),
				zap.Error(err),
			)
			continue
		}

		if matched {
			r.logger.Debug("rule matched",
				zap.Int("rule_index", i),
				zap.String("condition", rule.When),
				zap.String("answer", rule.Answer),
			)
			return rule.Answer, true
		}
	}

	return "", false
}

// Respond implements tree.Responder. When no rule applies it returns an empty
// answer and the tree falls back to its first branch. A done ctx is returned as
// the error.
func (r *Rules) Respond(ctx context.Context, prompt string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, ok := r.Match(ctx, prompt, options)
	if !ok {
		r.logger.Debug("no rules matched")
	}
	return answer, nil
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
