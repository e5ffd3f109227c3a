package tree

import (
	"context"

	"github.com/aescanero/dago-node-classifier/internal/eval/template"
	"go.uber.org/zap"
)

// Responder picks one of options for prompt. The answer should be a member of
// options; the engine falls back to the first branch when it is not.
type Responder interface {
	Respond(ctx context.Context, prompt string, options []string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, prompt string, options []string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, prompt string, options []string) (string, error) {
	return f(ctx, prompt, options)
}

// Prompter builds the prompt sent to a Responder for one question.
type Prompter interface {
	Prompt(question, text string, options []string) (string, error)
}

// Tree is a named, immutable decision tree.
type Tree struct {
	Name string
	Root Node
}

// NewTree validates cfg and builds the tree.
func NewTree(cfg TreeConfig) (*Tree, error) {
	if cfg.Name == "" {
		return nil, configErrorf("name", "tree name is required")
	}
	if cfg.Root == nil {
		return nil, configErrorf("root", "tree %q has no root node", cfg.Name)
	}

	root, err := buildNode(cfg.Root, "root")
	if err != nil {
		return nil, err
	}

	return &Tree{Name: cfg.Name, Root: root}, nil
}

// Depth returns the number of questions on the longest path through the tree.
func (t *Tree) Depth() int {
	return depth(t.Root)
}

// Classify walks the tree with the default engine and returns the terminal label.
func (t *Tree) Classify(ctx context.Context, text string, responder Responder) (string, error) {
	result, err := defaultEngine.Walk(ctx, t, text, responder)
	if err != nil {
		return "", err
	}
	return result.Label, nil
}

// Step records one answered question.
type Step struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Branch   string `json:"branch"`
	Fallback bool   `json:"fallback"`
}

// Result is the outcome of walking a tree.
type Result struct {
	Tree      string `json:"tree"`
	Label     string `json:"label"`
	Steps     []Step `json:"path"`
	Fallbacks int    `json:"fallbacks"`
}

// StepEvent is passed to Hooks after each answered question.
type StepEvent struct {
	Tree string
	Step Step
}

// Hooks observe traversal. Nil fields are skipped.
type Hooks struct {
	OnStep     func(ctx context.Context, e StepEvent)
	OnFallback func(ctx context.Context, e StepEvent)
}

// Engine walks trees. It holds no per-walk state and is safe for concurrent use
// when its Prompter and hooks are.
type Engine struct {
	prompter Prompter
	hooks    Hooks
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPrompter overrides the default prompt template.
func WithPrompter(p Prompter) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.prompter = p
		}
	}
}

// WithHooks registers traversal observers.
func WithHooks(hooks Hooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

var defaultEngine = NewEngine()

// NewEngine creates an engine using the default prompt template and a no-op logger.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		prompter: template.NewPrompter(template.NewEngine(), template.DefaultPrompt),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Walk starts at the root of t and follows the responder's answers until it
// reaches a terminal node. An answer outside the option set follows the first
// branch. Responder errors are returned unchanged.
func (e *Engine) Walk(ctx context.Context, t *Tree, text string, responder Responder) (*Result, error) {
	result := &Result{Tree: t.Name}
	node := t.Root

	for {
		switch n := node.(type) {
		case *TerminalNode:
			result.Label = n.Label
			return result, nil

		case *QuestionNode:
			options := n.Values()

			prompt, err := e.prompter.Prompt(n.Question, text, options)
			if err != nil {
				return nil, err
			}

			e.logger.Debug("asking responder",
				zap.String("tree", t.Name),
				zap.String("question", n.Question),
				zap.Strings("options", options),
			)

			answer, err := responder.Respond(ctx, prompt, options)
			if err != nil {
				return nil, err
			}

			branch, matched := n.branch(answer)
			step := Step{
				Question: n.Question,
				Answer:   answer,
				Branch:   branch.Value,
				Fallback: !matched,
			}
			result.Steps = append(result.Steps, step)
			event := StepEvent{Tree: t.Name, Step: step}

			if !matched {
				result.Fallbacks++
				e.logger.Warn("answer did not match any option, using first option",
					zap.String("tree", t.Name),
					zap.String("question", n.Question),
					zap.String("answer", answer),
					zap.String("fallback", branch.Value),
				)
				if e.hooks.OnFallback != nil {
					e.hooks.OnFallback(ctx, event)
				}
			}
			if e.hooks.OnStep != nil {
				e.hooks.OnStep(ctx, event)
			}

			node = branch.Next

		default:
			return nil, configErrorf("", "tree %q contains an unbuilt node", t.Name)
		}
	}
}
