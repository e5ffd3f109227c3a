package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/metrics"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"go.uber.org/zap"
)

// Classifier classifies text against the trees of one registry using one responder.
type Classifier struct {
	registry    *tree.Registry
	responder   tree.Responder
	engine      *tree.Engine
	inline      *tree.Engine
	prompter    tree.Prompter
	defaultTree string
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithDefaultTree sets the tree used when a request names none.
func WithDefaultTree(name string) Option {
	return func(c *Classifier) {
		c.defaultTree = name
	}
}

// WithMetrics records classifications and fallbacks on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Classifier) {
		c.metrics = collector
	}
}

// WithPrompter overrides the default question prompt.
func WithPrompter(p tree.Prompter) Option {
	return func(c *Classifier) {
		c.prompter = p
	}
}

// New creates a classifier. It fails with a *tree.TreeNotFoundError when the
// default tree is not in the registry.
func New(registry *tree.Registry, responder tree.Responder, logger *zap.Logger, opts ...Option) (*Classifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Classifier{
		registry:  registry,
		responder: responder,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.defaultTree != "" {
		if _, err := registry.Select(c.defaultTree); err != nil {
			return nil, err
		}
	}

	c.engine = c.newEngine((*metrics.Collector).Hooks)
	c.inline = c.newEngine(func(m *metrics.Collector) tree.Hooks {
		return m.HooksFor(metrics.InlineTree)
	})

	logger.Info("classifier initialized",
		zap.Strings("trees", registry.Names()),
		zap.String("default_tree", c.defaultTree),
	)

	return c, nil
}

func (c *Classifier) newEngine(hooks func(*metrics.Collector) tree.Hooks) *tree.Engine {
	opts := []tree.EngineOption{
		tree.WithLogger(c.logger),
		tree.WithPrompter(c.prompter),
	}
	if c.metrics != nil {
		opts = append(opts, tree.WithHooks(hooks(c.metrics)))
	}
	return tree.NewEngine(opts...)
}

// Classify classifies text with the named tree. An empty name selects the
// default tree, or the only tree of the registry.
func (c *Classifier) Classify(ctx context.Context, text, treeName string) (*tree.Result, error) {
	name := treeName
	if name == "" {
		name = c.defaultTree
	}

	t, err := c.registry.Select(name)
	if err != nil {
		// Requested names are caller input and never become label values.
		c.recordFailure(metrics.UnknownTree, err)
		return nil, err
	}

	return c.walk(ctx, c.engine, t, text, t.Name)
}

// ClassifyAll classifies text with every tree in definition order and stops at
// the first error.
func (c *Classifier) ClassifyAll(ctx context.Context, text string) ([]*tree.Result, error) {
	trees := c.registry.Trees()
	results := make([]*tree.Result, 0, len(trees))

	for _, t := range trees {
		result, err := c.walk(ctx, c.engine, t, text, t.Name)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// ClassifyTree classifies text with a tree that is not part of the registry,
// such as one sent inline with a request. Its metrics are all recorded under
// the "inline" tree label.
func (c *Classifier) ClassifyTree(ctx context.Context, t *tree.Tree, text string) (*tree.Result, error) {
	return c.walk(ctx, c.inline, t, text, metrics.InlineTree)
}

// Registry returns the trees this classifier serves.
func (c *Classifier) Registry() *tree.Registry {
	return c.registry
}

// walk classifies text with t. metricTree is the tree label its metrics are
// recorded under; labels of trees outside the registry are not recorded.
func (c *Classifier) walk(ctx context.Context, engine *tree.Engine, t *tree.Tree, text, metricTree string) (*tree.Result, error) {
	c.logger.Info("classifying text", zap.String("tree", t.Name))

	start := time.Now()
	result, err := engine.Walk(ctx, t, text, c.responder)
	if err != nil {
		c.logger.Error("classification failed",
			zap.String("tree", t.Name),
			zap.Error(err),
		)
		c.recordFailure(metricTree, err)
		return nil, err
	}
	elapsed := time.Since(start)

	c.logger.Info("classification decision",
		zap.String("tree", t.Name),
		zap.String("label", result.Label),
		zap.Int("questions", len(result.Steps)),
		zap.Int("fallbacks", result.Fallbacks),
		zap.Duration("duration", elapsed),
	)

	if c.metrics != nil {
		label := result.Label
		if metricTree == metrics.InlineTree {
			label = metrics.InlineTree
		}
		c.metrics.RecordClassification(metricTree, label, elapsed)
	}

	return result, nil
}

func (c *Classifier) recordFailure(treeName string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordFailure(treeName, FailureReason(err))
}

// FailureReason maps an error onto a short reason label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, tree.ErrInvalidConfig):
		return "config"
	case errors.Is(err, tree.ErrTreeNotFound):
		return "not_found"
	case errors.Is(err, tree.ErrBackend):
		return "backend"
	default:
		return "other"
	}
}
